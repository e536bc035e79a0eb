package api

import "time"

// Roles assigned by the backend.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is a row of the admin users table.
type User struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Book is a row of the admin books table and the storefront grid.
type Book struct {
	ID        string    `json:"_id"`
	MainText  string    `json:"mainText"`
	Author    string    `json:"author"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Sold      int       `json:"sold"`
	Category  string    `json:"category"`
	Thumbnail string    `json:"thumbnail"`
	Slider    []string  `json:"slider"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account is the authenticated user as reported by the auth endpoints.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

// Meta is the backend's pagination metadata. It is never computed locally.
type Meta struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Result []T  `json:"result"`
	Meta   Meta `json:"meta"`
}

// ImportOutcome is the backend's verdict on a bulk user create.
type ImportOutcome struct {
	CountSuccess int `json:"countSuccess"`
	CountFail    int `json:"countFail"`
}

// LoginResult carries the issued token and the account it belongs to.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        Account `json:"user"`
}

// LoginInput is the login form.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// CreateUserInput is the admin "new user" form.
type CreateUserInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// UpdateUserInput is the admin "edit user" form. Email is not editable.
type UpdateUserInput struct {
	ID       string `json:"_id" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// BulkUser is one element of a bulk-create request.
type BulkUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// BookInput is the create/update book form.
type BookInput struct {
	MainText  string   `json:"mainText" validate:"required"`
	Author    string   `json:"author" validate:"required"`
	Price     int64    `json:"price" validate:"gte=0"`
	Quantity  int      `json:"quantity" validate:"gte=0"`
	Category  string   `json:"category" validate:"required"`
	Thumbnail string   `json:"thumbnail" validate:"required"`
	Slider    []string `json:"slider" validate:"required,min=1,dive,required"`
}
