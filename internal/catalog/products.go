package catalog

import "github.com/fjod/go_storefront/internal/domain"

// fallbackProducts seed an empty catalog when the Fake Store API is unreachable.
var fallbackProducts = []domain.Product{
	{Name: "Wireless Headphones", Price: 99.99, Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop&q=80"},
	{Name: "Smartphone", Price: 699.99, Image: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=400&h=400&fit=crop&q=80"},
	{Name: "Laptop", Price: 1299.99, Image: "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400&h=400&fit=crop&q=80"},
	{Name: "Coffee Maker", Price: 149.99, Image: "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=400&h=400&fit=crop&q=80"},
	{Name: "Running Shoes", Price: 129.99, Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop&q=80"},
	{Name: "Backpack", Price: 79.99, Image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=400&fit=crop&q=80"},
	{Name: "Watch", Price: 299.99, Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop&q=80"},
	{Name: "Camera", Price: 899.99, Image: "https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=400&h=400&fit=crop&q=80"},
}

// topUpProducts fill the catalog up to the configured minimum.
var topUpProducts = []domain.Product{
	{Name: "Mechanical Keyboard", Price: 119.99, Image: "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400&h=400&fit=crop&q=80", Description: "Tactile switches and sturdy build.", Category: "electronics"},
	{Name: "USB-C Hub", Price: 39.99, Image: "https://images.unsplash.com/photo-1555617117-08fda9b86ea3?w=400&h=400&fit=crop&q=80", Description: "Expand your laptop ports easily.", Category: "accessories"},
	{Name: "Noise Cancelling Earbuds", Price: 89.99, Image: "https://images.unsplash.com/photo-1518443893430-bbb00e409013?w=400&h=400&fit=crop&q=80", Description: "Immersive sound on the go.", Category: "electronics"},
	{Name: "Portable SSD", Price: 149.99, Image: "https://images.unsplash.com/photo-1546435770-a3e426bf472b?w=400&h=400&fit=crop&q=80", Description: "Fast external storage.", Category: "electronics"},
	{Name: "4K Monitor", Price: 399.99, Image: "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400&h=400&fit=crop&q=80", Description: "Crisp visuals for work and play.", Category: "electronics"},
	{Name: "Smart Watch", Price: 199.99, Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop&q=80", Description: "Track fitness and stay connected.", Category: "wearables"},
	{Name: "Wireless Charger", Price: 29.99, Image: "https://images.unsplash.com/photo-1518770660439-4636190af475?w=400&h=400&fit=crop&q=80", Description: "Convenient Qi charging pad.", Category: "accessories"},
	{Name: "Fitness Tracker", Price: 59.99, Image: "https://images.unsplash.com/photo-1518623489647-4db959c981be?w=400&h=400&fit=crop&q=80", Description: "Monitor activity and health.", Category: "wearables"},
	{Name: "Action Camera", Price: 249.99, Image: "https://images.unsplash.com/photo-1519181245277-cffeb31da2a1?w=400&h=400&fit=crop&q=80", Description: "Capture adventures in 4K.", Category: "electronics"},
	{Name: "Drone", Price: 599.99, Image: "https://images.unsplash.com/photo-1523961131990-5ea7d99bb13e?w=400&h=400&fit=crop&q=80", Description: "Aerial photography made easy.", Category: "electronics"},
	{Name: "Desk Lamp", Price: 39.99, Image: "https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=400&h=400&fit=crop&q=80", Description: "Minimal LED lamp with dimmer.", Category: "home"},
	{Name: "Laptop Stand", Price: 49.99, Image: "https://images.unsplash.com/photo-1611185974273-3f182a6469ee?w=400&h=400&fit=crop&q=80", Description: "Ergonomic aluminum stand.", Category: "accessories"},
}

func cloneProducts(src []domain.Product) []domain.Product {
	out := make([]domain.Product, len(src))
	copy(out, src)
	return out
}
