package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/aws"
	"github.com/tableside/pos-api/internal/handlers"
	"github.com/tableside/pos-api/internal/logger"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(cfg.Log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Restaurant POS API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":         "/api/auth",
				"menu":         "/api/menu",
				"orders":       "/api/orders",
				"tables":       "/api/tables",
				"reservations": "/api/reservations",
				"customers":    "/api/customers",
				"inventory":    "/api/inventory",
				"analytics":    "/api/analytics",
			},
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterAuthRoutes(r, cfg)
	handlers.RegisterMenuRoutes(r, cfg)
	handlers.RegisterOrdersRoutes(r, cfg)
	handlers.RegisterTablesRoutes(r, cfg)
	handlers.RegisterReservationsRoutes(r, cfg)
	handlers.RegisterCustomersRoutes(r, cfg)
	handlers.RegisterInventoryRoutes(r, cfg)
	handlers.RegisterAnalyticsRoutes(r, cfg)

	return r
}

func tableName(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

func main() {
	lg := logger.New("pos-api")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		Metrics:        aws.NewMetrics(clients.CloudWatch, "RestaurantPOS"),
		Log:            lg,
		TokenIssuer:    auth.NewTokenIssuer(secret),

		UsersTable:        tableName("USERS_TABLE", "pos-users"),
		CustomersTable:    tableName("CUSTOMERS_TABLE", "pos-customers"),
		MenuTable:         tableName("MENU_TABLE", "pos-menu"),
		OrdersTable:       tableName("ORDERS_TABLE", "pos-orders"),
		TablesTable:       tableName("TABLES_TABLE", "pos-tables"),
		ReservationsTable: tableName("RESERVATIONS_TABLE", "pos-reservations"),
		InventoryTable:    tableName("INVENTORY_TABLE", "pos-inventory"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
