package devserver

import (
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/bookadmin/internal/api"
)

var seedCategories = []string{"Arts", "Business", "Comics", "Cooking", "Entertainment", "History", "Music", "Sports", "Teen", "Travel"}

var seedBooks = []struct {
	mainText string
	author   string
	category string
	price    int64
	quantity int
	sold     int
}{
	{"War and Peace", "Leo Tolstoy", "History", 189000, 40, 120},
	{"The Art of War", "Sun Tzu", "Business", 79000, 100, 530},
	{"Norwegian Wood", "Haruki Murakami", "Entertainment", 125000, 25, 310},
	{"Salt Fat Acid Heat", "Samin Nosrat", "Cooking", 340000, 12, 44},
	{"The Rest Is Noise", "Alex Ross", "Music", 262000, 8, 19},
	{"Maus", "Art Spiegelman", "Comics", 210000, 30, 205},
	{"Open", "Andre Agassi", "Sports", 158000, 50, 88},
	{"The Outsiders", "S. E. Hinton", "Teen", 69000, 70, 402},
	{"In Patagonia", "Bruce Chatwin", "Travel", 115000, 15, 23},
	{"Ways of Seeing", "John Berger", "Arts", 98000, 22, 67},
	{"Good to Great", "Jim Collins", "Business", 235000, 60, 150},
	{"A Brief History of Time", "Stephen Hawking", "History", 145000, 35, 276},
}

// seed loads a fixed catalogue and two accounts. Timestamps step back one day
// per record from now so date-range filters have something to select.
func (d *dataset) seed(admin Credentials) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.categories = append(d.categories, seedCategories...)

	accounts := []struct {
		fullName, email, phone, password, role string
	}{
		{"Administrator", admin.Email, "0900000000", admin.Password, api.RoleAdmin},
		{"Demo Reader", "reader@bookstore.dev", "0911111111", admin.Password, api.RoleUser},
	}
	for i, a := range accounts {
		if u, err := d.addUserLocked(a.fullName, a.email, a.phone, a.password, a.role); err == nil {
			at := now.Add(-time.Duration(len(accounts)-i) * 24 * time.Hour)
			u.CreatedAt, u.UpdatedAt = at, at
		}
	}

	for i, s := range seedBooks {
		at := now.Add(-time.Duration(len(seedBooks)-i) * 24 * time.Hour)
		d.books = append(d.books, &api.Book{
			ID:        uuid.NewString(),
			MainText:  s.mainText,
			Author:    s.author,
			Price:     s.price,
			Quantity:  s.quantity,
			Sold:      s.sold,
			Category:  s.category,
			Thumbnail: "placeholder.png",
			Slider:    []string{"placeholder.png"},
			CreatedAt: at,
			UpdatedAt: at,
		})
	}
}
