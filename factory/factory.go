// Package factory is the client for the pizza factory, the external
// order-verification collaborator. Its verdict is advisory: the order is
// already committed before the factory ever hears about it.
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wpendl99/jwt-pizza-service/config"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// Diner identifies the ordering user to the factory.
type Diner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderRequest struct {
	Diner Diner        `json:"diner"`
	Order models.Order `json:"order"`
}

// VerificationResult is the factory's verdict for a fulfilled order.
type VerificationResult struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl"`
}

var client = &http.Client{Timeout: 10 * time.Second}

// Verify forwards an accepted order to the factory. On a non-OK response
// the partial result (report reference included, when present) comes back
// alongside the error so callers can still surface it.
func Verify(diner Diner, order models.Order) (*VerificationResult, error) {
	cfg := config.App.Factory
	body, err := json.Marshal(orderRequest{Diner: diner, Order: order})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.URL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &VerificationResult{}
	_ = json.NewDecoder(resp.Body).Decode(result)
	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("factory rejected order: status %d", resp.StatusCode)
	}
	return result, nil
}
