package views

import (
	"strconv"

	"github.com/matheus3301/bookadmin/internal/api"
)

// UserColumns are the users table columns.
var UserColumns = []Column[api.User]{
	{Title: "id", Value: func(u api.User) string { return u.ID }},
	{Title: "full name", Expansion: 2, Value: func(u api.User) string { return u.FullName }},
	{Title: "email", Expansion: 2, Value: func(u api.User) string { return u.Email }},
	{Title: "phone", Expansion: 1, Value: func(u api.User) string { return u.Phone }},
	{Title: "role", Value: func(u api.User) string { return u.Role }},
	{Title: "updated at", Value: func(u api.User) string { return formatDate(u.UpdatedAt) }},
}

// BookColumns are the books table columns.
var BookColumns = []Column[api.Book]{
	{Title: "id", Value: func(b api.Book) string { return b.ID }},
	{Title: "title", Expansion: 3, Value: func(b api.Book) string { return b.MainText }},
	{Title: "category", Expansion: 1, Value: func(b api.Book) string { return b.Category }},
	{Title: "author", Expansion: 2, Value: func(b api.Book) string { return b.Author }},
	{Title: "price", AlignEnd: true, Value: func(b api.Book) string { return formatPrice(b.Price) }},
	{Title: "sold", AlignEnd: true, Value: func(b api.Book) string { return strconv.Itoa(b.Sold) }},
	{Title: "updated at", Value: func(b api.Book) string { return formatDate(b.UpdatedAt) }},
}
