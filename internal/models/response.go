package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment,omitempty"`
}

type OrderResponse struct {
	ID             string     `json:"id"`
	OrderSearchID  string     `json:"order_search_id"`
	Username       *string    `json:"username"`
	IsGuest        bool       `json:"is_guest"`
	FileName       string     `json:"file_name"`
	FileID         string     `json:"file_id"`
	Pages          int        `json:"pages"`
	ColorMode      string     `json:"color_mode"`
	Sides          string     `json:"sides"`
	PaperSize      string     `json:"paper_size"`
	Orientation    string     `json:"orientation"`
	PagesPerSide   int        `json:"pages_per_side"`
	Copies         int        `json:"copies"`
	Amount         float64    `json:"amount"`
	DeliveryMethod string     `json:"delivery_method"`
	Email          string     `json:"email"`
	Name           *string    `json:"name"`
	Phone          *string    `json:"phone"`
	Building       *string    `json:"building"`
	MailboxNumber  *string    `json:"mailbox_number"`
	Notes          *string    `json:"notes"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// NewOrderResponse renders timestamps in loc; a nil loc keeps them as stored.
func NewOrderResponse(o *Order, loc *time.Location) OrderResponse {
	return OrderResponse{
		ID:             o.ID.String(),
		OrderSearchID:  o.OrderSearchID,
		Username:       o.Username,
		IsGuest:        o.IsGuest,
		FileName:       o.FileName,
		FileID:         o.FileID,
		Pages:          o.Pages,
		ColorMode:      o.ColorMode,
		Sides:          o.Sides,
		PaperSize:      o.PaperSize,
		Orientation:    o.Orientation,
		PagesPerSide:   o.PagesPerSide,
		Copies:         o.Copies,
		Amount:         o.Amount,
		DeliveryMethod: o.DeliveryMethod,
		Email:          o.Email,
		Name:           o.Name,
		Phone:          o.Phone,
		Building:       o.Building,
		MailboxNumber:  o.MailboxNumber,
		Notes:          o.Notes,
		Status:         string(o.Status),
		CreatedAt:      inLocation(o.CreatedAt, loc),
		UpdatedAt:      inLocationPtr(o.UpdatedAt, loc),
		CompletedAt:    inLocationPtr(o.CompletedAt, loc),
	}
}

type OrderCreatedResponse struct {
	ID            string    `json:"id"`
	OrderSearchID string    `json:"order_search_id"`
	Username      *string   `json:"username"`
	FileID        string    `json:"file_id"`
	Status        string    `json:"status"`
	IsGuest       bool      `json:"is_guest"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
}

type UploadResponse struct {
	FileID       string `json:"fileId"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Pages        int    `json:"pages"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type VerifyPaymentResponse struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	IsPaid        bool   `json:"is_paid"`
	SessionID     string `json:"session_id"`
}

type WebhookResponse struct {
	Status string `json:"status"`
	Event  string `json:"event"`
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	Username    string  `json:"username"`
	FullName    *string `json:"full_name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
}

type UserResponse struct {
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FullName      *string    `json:"full_name"`
	Phone         *string    `json:"phone"`
	Building      *string    `json:"building"`
	MailboxNumber *string    `json:"mailbox_number"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// AdminUserResponse adds the fields only administrators see.
type AdminUserResponse struct {
	ID int64 `json:"id"`
	UserResponse
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Building:      u.Building,
		MailboxNumber: u.MailboxNumber,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func NewAdminUserResponse(u *User) AdminUserResponse {
	return AdminUserResponse{
		ID:           u.ID,
		UserResponse: NewUserResponse(u),
		Role:         u.Role,
		IsActive:     u.IsActive,
	}
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

func inLocationPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := inLocation(*t, loc)
	return &v
}
