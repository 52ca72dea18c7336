package checkout

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/order"
)

// PathSendEmail is the order confirmation endpoint relative to the API base.
const PathSendEmail = "/send-email"

// Notifier delivers the confirmation for a placed order.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, o order.Order) error
}

// Poster is the write side of the backend client.
type Poster interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error)
}

// HTTPNotifier posts the order to a send-email endpoint.
type HTTPNotifier struct {
	api  Poster
	path string
}

func NewHTTPNotifier(api Poster, path string) *HTTPNotifier {
	return &HTTPNotifier{api: api, path: path}
}

func (n *HTTPNotifier) NotifyOrderPlaced(ctx context.Context, o order.Order) error {
	resp, err := n.api.Do(ctx, http.MethodPost, n.path, nil, o)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.NetworkError{Op: http.MethodPost + " " + n.path, StatusCode: resp.StatusCode}
	}
	return nil
}

// Publisher writes an event to a message topic.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// KafkaNotifier publishes an OrderPlaced event keyed by order number.
type KafkaNotifier struct {
	publisher Publisher
}

func NewKafkaNotifier(p Publisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: p}
}

func (n *KafkaNotifier) NotifyOrderPlaced(ctx context.Context, o order.Order) error {
	return n.publisher.Publish(ctx, o.OrderNumber, order.NewPlacedEvent(o))
}
