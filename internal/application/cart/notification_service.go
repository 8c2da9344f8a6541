package cart

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/notification"
	"go.uber.org/zap"
)

const (
	orderTitleMaxLen = 25
	emailSendTimeout = 30 * time.Second
)

// NotificationConfig carries the storefront identity used in emails
type NotificationConfig struct {
	BrandName  string
	AdminEmail string
	FromEmail  string
}

// NotificationService sends the post-purchase emails. Sends never block
// or fail the checkout response; the cart's confirmation timestamp is
// recorded only when both the buyer and admin emails went out.
type NotificationService struct {
	sender notification.EmailSender
	carts  cart.Repository
	cfg    NotificationConfig
	logger *zap.Logger

	// wg lets tests and shutdown wait for in-flight sends
	wg sync.WaitGroup
}

// NewNotificationService creates a notification service
func NewNotificationService(sender notification.EmailSender, carts cart.Repository, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender: sender,
		carts:  carts,
		cfg:    cfg,
		logger: logger,
	}
}

// DispatchPurchaseConfirmations sends the buyer receipt and the admin
// alert in the background and returns immediately.
func (s *NotificationService) DispatchPurchaseConfirmations(c *cart.Cart, transactionID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		s.sendPurchaseConfirmations(ctx, c, transactionID)
	}()
}

// Wait blocks until all in-flight email dispatches finish
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) sendPurchaseConfirmations(ctx context.Context, c *cart.Cart, transactionID string) {
	title := OrderTitle(c)

	buyerMsg, buyerErr := s.buyerMessage(c, title, transactionID)
	adminMsg, adminErr := s.adminMessage(c, title, transactionID)
	if buyerErr != nil || adminErr != nil {
		s.logger.Error("failed to compose purchase emails",
			zap.String("cart_token", c.Token),
			zap.NamedError("buyer", buyerErr),
			zap.NamedError("admin", adminErr),
		)
		return
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, msg := range []notification.Message{buyerMsg, adminMsg} {
		wg.Add(1)
		go func(i int, msg notification.Message) {
			defer wg.Done()
			errs[i] = s.sender.Send(ctx, msg)
		}(i, msg)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.logger.Error("failed to send purchase email",
				zap.String("cart_token", c.Token),
				zap.String("recipient", []string{"buyer", "admin"}[i]),
				zap.Error(err),
			)
		}
	}
	if errs[0] != nil || errs[1] != nil {
		return
	}

	fields := map[string]any{"purchase_confirmation_email_sent_at": time.Now()}
	if err := s.carts.UpdateFields(ctx, c.ID, fields); err != nil {
		s.logger.Error("failed to record email confirmation timestamp",
			zap.String("cart_token", c.Token), zap.Error(err))
	}
}

// OrderTitle summarizes a cart for email subjects: the first item's title
// truncated, plus a count of the remaining items.
func OrderTitle(c *cart.Cart) string {
	if len(c.Items) == 0 {
		return "Your order"
	}

	title := "Your order"
	if c.Items[0].Product != nil {
		title = c.Items[0].Product.Title
	}
	if runes := []rune(title); len(runes) > orderTitleMaxLen {
		title = string(runes[:orderTitleMaxLen]) + "..."
	}

	if extra := len(c.Items) - 1; extra > 0 {
		plural := "s"
		if extra == 1 {
			plural = ""
		}
		title = fmt.Sprintf("%s and %d more item%s", title, extra, plural)
	}
	return title
}

var buyerEmailTmpl = template.Must(template.New("buyer").Parse(`
<h2>Thank you for your order from {{.BrandName}}!</h2>
<p>{{.OrderTitle}}</p>
<table>
{{range .Items}}<tr><td>{{.Title}} ({{.Size}})</td><td>x{{.Qty}}</td><td>${{.LineTotal}}</td></tr>
{{end}}</table>
<p>Subtotal: ${{.SubTotal}}<br>
Shipping: ${{.ShippingTotal}}<br>
Sales tax: ${{.SalesTax}}<br>
<strong>Total: ${{.GrandTotal}}</strong></p>
<p>Transaction: {{.TransactionID}}</p>
`))

var adminEmailTmpl = template.Must(template.New("admin").Parse(`
<h2>New order: {{.OrderTitle}}</h2>
<p>Ship to: {{.ShipToName}}<br>{{.ShipToCity}}, {{.ShipToState}} {{.ShipToPostal}}</p>
<p>Total: ${{.GrandTotal}} (transaction {{.TransactionID}})</p>
<p>Cart token: {{.CartToken}}</p>
`))

type emailItem struct {
	Title     string
	Size      string
	Qty       int
	LineTotal string
}

func (s *NotificationService) buyerMessage(c *cart.Cart, title, transactionID string) (notification.Message, error) {
	items := make([]emailItem, 0, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		name := ""
		if it.Product != nil {
			name = it.Product.Title
		}
		items = append(items, emailItem{
			Title:     name,
			Size:      it.Size,
			Qty:       it.Qty,
			LineTotal: it.LineTotal().StringFixed(2),
		})
	}

	data := map[string]any{
		"BrandName":     s.cfg.BrandName,
		"OrderTitle":    title,
		"Items":         items,
		"SubTotal":      c.SubTotal.StringFixed(2),
		"ShippingTotal": c.ShippingTotal.StringFixed(2),
		"SalesTax":      c.SalesTax.StringFixed(2),
		"GrandTotal":    c.GrandTotal.StringFixed(2),
		"TransactionID": transactionID,
	}

	var buf bytes.Buffer
	if err := buyerEmailTmpl.Execute(&buf, data); err != nil {
		return notification.Message{}, err
	}
	return notification.Message{
		To:      c.ShippingAddress.Email,
		Subject: fmt.Sprintf("Your %s order: %s", s.cfg.BrandName, title),
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Thank you for your order: %s. Total $%s.", title, c.GrandTotal.StringFixed(2)),
	}, nil
}

func (s *NotificationService) adminMessage(c *cart.Cart, title, transactionID string) (notification.Message, error) {
	data := map[string]any{
		"OrderTitle":    title,
		"ShipToName":    c.ShippingAddress.FullName(),
		"ShipToCity":    c.ShippingAddress.City,
		"ShipToState":   c.ShippingAddress.State,
		"ShipToPostal":  c.ShippingAddress.PostalCode,
		"GrandTotal":    c.GrandTotal.StringFixed(2),
		"TransactionID": transactionID,
		"CartToken":     c.Token,
	}

	var buf bytes.Buffer
	if err := adminEmailTmpl.Execute(&buf, data); err != nil {
		return notification.Message{}, err
	}
	return notification.Message{
		To:      s.cfg.AdminEmail,
		Subject: fmt.Sprintf("New order: %s", title),
		HTML:    buf.String(),
		Text:    fmt.Sprintf("New order %s, total $%s.", title, c.GrandTotal.StringFixed(2)),
	}, nil
}
