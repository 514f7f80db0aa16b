package handlers

import (
	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/aws"
	"github.com/tableside/pos-api/internal/logger"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	Metrics        *aws.Metrics
	Log            *logger.Logger
	TokenIssuer    *auth.TokenIssuer

	UsersTable        string
	CustomersTable    string
	MenuTable         string
	OrdersTable       string
	TablesTable       string
	ReservationsTable string
	InventoryTable    string
}
