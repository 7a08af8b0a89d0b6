package apihandlers

import "github.com/budgetbot/budget/pkg/models"

// APIError represents an error response. Used for swagger documentation.
type APIError = models.APIError
