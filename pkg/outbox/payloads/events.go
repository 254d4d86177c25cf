package payloads

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"

// OrderPlacedEvent carries what the confirmation email needs.
type OrderPlacedEvent struct {
	OrderID       string              `json:"orderId"`
	BuyerID       string              `json:"buyerId"`
	BuyerName     string              `json:"buyerName"`
	BuyerEmail    string              `json:"buyerEmail"`
	TotalAmount   int64               `json:"totalAmount"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	ItemCount     int                 `json:"itemCount"`
	CreatedAt     int64               `json:"createdAt"`
}

// OtpRequestedEvent is routed to the SMS gateway topic. The code is present
// only in this payload.
type OtpRequestedEvent struct {
	MobileNumber string `json:"mobileNumber"`
	Code         string `json:"code"`
	ExpiresAt    int64  `json:"expiresAt"`
}

type VendorRegisteredEvent struct {
	VendorID     string `json:"vendorId"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	CreatedAt    int64  `json:"createdAt"`
}

type ProjectBriefCreatedEvent struct {
	BriefID        string `json:"briefId"`
	UserID         string `json:"userId"`
	RoomType       string `json:"roomType"`
	BudgetMax      int64  `json:"budgetMax"`
	Currency       string `json:"currency"`
	SubmissionDate int64  `json:"submissionDate"`
}

// ConsultationRequestedEvent acknowledges a consultation to the requester.
type ConsultationRequestedEvent struct {
	RequestID     string  `json:"requestId"`
	UserID        string  `json:"userId"`
	ProjectID     *string `json:"projectId,omitempty"`
	RequestedTime int64   `json:"requestedTime"`
	ContactEmail  string  `json:"contactEmail,omitempty"`
	ContactName   string  `json:"contactName,omitempty"`
}
