package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/funnelkit/funnelkit/internal/config"
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/types"
	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// restAdapter talks to the commerce backend's checkout REST API. Retries are
// deliberately small and time-boxed so a degraded backend can never hold the
// customer on the processing step.
type restAdapter struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
	logger  *logger.Logger
}

// NewRESTAdapter creates the REST implementation of the gateway Adapter
func NewRESTAdapter(cfg *config.Configuration, log *logger.Logger) Adapter {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Gateway.RetryMax
	client.RetryWaitMax = cfg.Gateway.RetryWaitMax
	client.HTTPClient.Timeout = cfg.Gateway.Timeout
	client.Logger = nil

	return &restAdapter{
		baseURL: strings.TrimRight(cfg.Gateway.BaseURL, "/"),
		apiKey:  cfg.Gateway.APIKey,
		client:  client,
		logger:  log,
	}
}

type completeOrderRequest struct {
	OrderDraftID string `json:"order_draft_id"`
	PiID         string `json:"pi_id"`
}

func (a *restAdapter) CompleteOrder(ctx context.Context, draftOrderID, paymentRef string) (CompleteOrderResult, error) {
	var result CompleteOrderResult
	body := completeOrderRequest{OrderDraftID: draftOrderID, PiID: paymentRef}

	status, data, err := a.do(ctx, http.MethodPost, "/checkout/complete-order", nil, body)
	if err != nil {
		return result, err
	}
	if status != http.StatusOK {
		return result, a.statusError("complete order", status, data)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, ierr.WithError(err).
			WithHint("Order backend returned a malformed completion response").
			Mark(ierr.ErrGateway)
	}
	return result, nil
}

type orderSummaryResponse struct {
	OrderID        int64                  `json:"order_id"`
	OrderNumber    string                 `json:"order_number"`
	Items          []orderItemResponse    `json:"items"`
	ShippingTotal  decimal.Decimal        `json:"shipping_total"`
	FeesTotal      decimal.Decimal        `json:"fees_total"`
	PointsRedeemed pointsRedeemedResponse `json:"points_redeemed"`
	ItemsDiscount  decimal.Decimal        `json:"items_discount"`
	GrandTotal     decimal.Decimal        `json:"grand_total"`
	Status         string                 `json:"status"`
}

type pointsRedeemedResponse struct {
	Points int64           `json:"points"`
	Value  decimal.Decimal `json:"value"`
}

type orderItemResponse struct {
	Name     string          `json:"name"`
	Sku      string          `json:"sku"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Image    string          `json:"image"`
}

func (a *restAdapter) GetOrderSummary(ctx context.Context, orderID int64, paymentRef string) (*types.OrderSummary, error) {
	query := url.Values{}
	if orderID > 0 {
		query.Set("order_id", strconv.FormatInt(orderID, 10))
	}
	if paymentRef != "" {
		query.Set("pi_id", paymentRef)
	}

	status, data, err := a.do(ctx, http.MethodGet, "/checkout/order-summary", query, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, a.statusError("order summary", status, data)
	}

	var resp orderSummaryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Order backend returned a malformed summary").
			Mark(ierr.ErrGateway)
	}

	summary := &types.OrderSummary{
		OrderID:       resp.OrderID,
		OrderNumber:   resp.OrderNumber,
		ShippingTotal: resp.ShippingTotal,
		FeesTotal:     resp.FeesTotal,
		PointsRedeemed: types.PointsRedemption{
			Points: resp.PointsRedeemed.Points,
			Value:  resp.PointsRedeemed.Value,
		},
		ItemsDiscount: resp.ItemsDiscount,
		GrandTotal:    resp.GrandTotal,
		Status:        resp.Status,
	}
	for _, item := range resp.Items {
		summary.Items = append(summary.Items, types.OrderItem{
			Name:     item.Name,
			Sku:      item.Sku,
			Qty:      item.Qty,
			Price:    item.Price,
			Subtotal: item.Subtotal,
			Total:    item.Total,
			Image:    item.Image,
		})
	}
	return summary, nil
}

type chargeUpsellRequest struct {
	ParentOrderID int64              `json:"parent_order_id"`
	ParentPiID    string             `json:"parent_pi_id"`
	Items         []chargeUpsellItem `json:"items"`
}

type chargeUpsellItem struct {
	Sku                 string           `json:"sku"`
	Qty                 int              `json:"qty"`
	ItemDiscountPercent *decimal.Decimal `json:"item_discount_percent,omitempty"`
}

func (a *restAdapter) ChargeUpsell(ctx context.Context, orderID int64, paymentRef, sku string, qty int, discountPercent *decimal.Decimal) error {
	body := chargeUpsellRequest{
		ParentOrderID: orderID,
		ParentPiID:    paymentRef,
		Items: []chargeUpsellItem{{
			Sku:                 sku,
			Qty:                 qty,
			ItemDiscountPercent: discountPercent,
		}},
	}

	status, data, err := a.do(ctx, http.MethodPost, "/upsell/charge", nil, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return a.statusError("upsell charge", status, data)
	}
	return nil
}

func (a *restAdapter) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, ierr.WithError(err).
				WithHint("Unable to encode gateway request").
				Mark(ierr.ErrSystem)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, ierr.WithError(err).
			WithHint("Unable to build gateway request").
			Mark(ierr.ErrSystem)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.apiKey != "" {
		req.Header.Set("x-api-key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, ierr.WithError(err).
			WithHintf("Order backend unreachable: %s %s", method, path).
			Mark(ierr.ErrGateway)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, ierr.WithError(err).
			WithHint("Unable to read gateway response").
			Mark(ierr.ErrGateway)
	}
	return resp.StatusCode, data, nil
}

func (a *restAdapter) statusError(op string, status int, data []byte) error {
	a.logger.Warnw("gateway request failed",
		"op", op,
		"status", status,
	)
	return ierr.NewError(fmt.Sprintf("%s failed", op)).
		WithHintf("Order backend responded with status %d", status).
		WithReportableDetails(map[string]any{
			"status": status,
			"body":   string(data),
		}).
		Mark(ierr.ErrGateway)
}
