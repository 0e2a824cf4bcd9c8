package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/internal/orders"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

type stubOrderService struct {
	orders.Service
	createFn func(ctx context.Context, input orders.CreateInput) (*models.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	return s.createFn(ctx, input)
}

func postGuestOrder(t *testing.T, svc orders.Service, payload string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CreateGuestOrder(svc, logger.New(logger.Options{ServiceName: "controllers-test"}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

func TestCreateGuestOrderRequiresContactDetails(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	payload := func(guest, address string) string {
		body := `{"guest":` + guest
		if address != "" {
			body += `,"delivery_address":"` + address + `"`
		}
		return body + `,"items":[{"product_id":"` + productID.String() + `","qty":1}]}`
	}

	tests := []struct {
		name string
		body string
	}{
		{
			"missing phone",
			payload(`{"name":"Ariane N.","email":"ariane@example.cm"}`, "Rue 12, Bonapriso, Douala"),
		},
		{
			"phone too short",
			payload(`{"name":"Ariane N.","email":"ariane@example.cm","phone":"123"}`, "Rue 12, Bonapriso, Douala"),
		},
		{
			"missing delivery address",
			payload(`{"name":"Ariane N.","email":"ariane@example.cm","phone":"+237670000001"}`, ""),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{createFn: func(context.Context, orders.CreateInput) (*models.Order, error) {
				t.Fatal("service must not be reached on invalid input")
				return nil, nil
			}}
			rec := postGuestOrder(t, svc, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
				t.Fatalf("expected VALIDATION_ERROR, got %s", code)
			}
		})
	}
}

func TestCreateGuestOrderForwardsContactDetails(t *testing.T) {
	t.Parallel()

	var got orders.CreateInput
	svc := &stubOrderService{createFn: func(_ context.Context, input orders.CreateInput) (*models.Order, error) {
		got = input
		name, email, phone := input.Guest.Name, input.Guest.Email, input.Guest.Phone
		return &models.Order{
			ID:        uuid.New(),
			OrderCode: "MB-20260314-ABC234",
			Status:    enums.OrderStatusToProcess,
			Guest:     models.GuestContact{Name: &name, Email: &email, Phone: &phone},
		}, nil
	}}

	productID := uuid.New()
	body := `{"guest":{"name":"Ariane N.","email":"ariane@example.cm","phone":"+237670000001"},` +
		`"delivery_address":"Rue 12, Bonapriso, Douala",` +
		`"items":[{"product_id":"` + productID.String() + `","qty":2}]}`

	rec := postGuestOrder(t, svc, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Guest == nil || got.Guest.Phone != "+237670000001" {
		t.Fatalf("expected guest phone forwarded, got %+v", got.Guest)
	}
	if got.DeliveryAddress == nil || *got.DeliveryAddress != "Rue 12, Bonapriso, Douala" {
		t.Fatalf("expected delivery address forwarded, got %v", got.DeliveryAddress)
	}
}
