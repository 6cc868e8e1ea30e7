package models

// CreateOrderRequest carries the print job configured by the client. FileID
// and FileName come from a previous upload and are not re-checked against
// the content store.
type CreateOrderRequest struct {
	FileName       string  `json:"file_name" validate:"required"`
	FileID         string  `json:"file_id" validate:"required"`
	Pages          int     `json:"pages" validate:"gte=1"`
	ColorMode      string  `json:"color_mode" validate:"required,oneof=color bw"`
	Sides          string  `json:"sides" validate:"required,oneof=single double"`
	PaperSize      string  `json:"paper_size" validate:"required"`
	Orientation    string  `json:"orientation" validate:"required"`
	PagesPerSide   int     `json:"pages_per_side" validate:"gte=1"`
	Copies         int     `json:"copies" validate:"gte=1"`
	Amount         float64 `json:"amount" validate:"gt=0"`
	DeliveryMethod string  `json:"delivery_method" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Building       *string `json:"building,omitempty"`
	MailboxNumber  *string `json:"mailbox_number,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type PasswordResetRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type AdminPasswordResetRequest struct {
	UserEmail   string `json:"user_email" form:"user_email" validate:"required,email"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

// UserUpdateRequest only touches the fields that are present.
type UserUpdateRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Building      *string `json:"building,omitempty"`
	MailboxNumber *string `json:"mailbox_number,omitempty"`
}
