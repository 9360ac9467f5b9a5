package main

// @title Clothing Store API
// @version 1.0
// @description Clothing store backend with a stock-aware purchase workflow
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Customers
// @tag.description Customer account endpoints

// @tag.name Products
// @tag.description Catalog and stock endpoints

// @tag.name Purchases
// @tag.description Purchase lifecycle endpoints

// @tag.name Health
// @tag.description Health check endpoints
