package main

import (
	"bizdesk/internal/adapter/http/routes"
)

// @title           bizdesk API
// @version         1.0
// @description     Orders, estimates, advance payments and catalog records for a small trading business.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /api

func main() {
	routes.Run()
}
