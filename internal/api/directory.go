package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/subtally/subtally/internal/model"
)

// ListSubscriptions fetches all tracked subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var out struct {
		Subscriptions []model.Subscription `json:"subscriptions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/subscriptions", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return out.Subscriptions, nil
}

// ListPaymentCards fetches all stored payment cards.
func (c *Client) ListPaymentCards(ctx context.Context) ([]model.PaymentCard, error) {
	var out struct {
		Cards []model.PaymentCard `json:"cards"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/cards", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list payment cards: %w", err)
	}
	return out.Cards, nil
}

// ListCategories fetches all spending categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out.Categories, nil
}

// Ensure Client implements the directory contract.
var _ Directory = (*Client)(nil)
