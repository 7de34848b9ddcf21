package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

type (
	Product struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
	}

	CartItem struct {
		Product
		Quantity int `json:"quantity"`
	}

	CartView struct {
		Items     []CartItem `json:"items"`
		Total     float64    `json:"total"`
		ItemCount int        `json:"itemCount"`
	}
)

type AddItemRequest struct {
	ProductID int `json:"product_id"`
}

type HandOffResponse struct {
	Location string `json:"location"`
}

type CheckoutView struct {
	Status string   `json:"status"`
	Cart   CartView `json:"cart"`
}

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type SubmitResponse struct {
	Status          string `json:"status"`
	Reference       string `json:"reference,omitempty"`
	Error           string `json:"error,omitempty"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	RedirectAfterMS int64  `json:"redirectAfterMs,omitempty"`
}

type CreateIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StripeConfigResponse struct {
	PublishableKey string `json:"publishableKey,omitempty"`
}

type SessionActivityResponse struct {
	SessionID string `json:"sessionId"`
	Events    int64  `json:"events"`
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
	}
}

func toCartView(c domain.Cart) CartView {
	v := CartView{
		Items:     make([]CartItem, 0, len(c.Lines())),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
	for _, l := range c.Lines() {
		v.Items = append(v.Items, CartItem{
			Product:  toProduct(l.Product),
			Quantity: l.Quantity,
		})
	}
	return v
}

func toCustomerInfo(v CustomerInfo) domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Email:     v.Email,
		Address:   v.Address,
		City:      v.City,
		ZipCode:   v.ZipCode,
		Country:   v.Country,
	}
}
