package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Game Recommendation API
// @version         0.1.0
// @description     IGDB catalog sync, similarity-based game recommendations, and name suggestions.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
