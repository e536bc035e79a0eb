package devserver

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/bookadmin/internal/api"
)

var (
	errNotFound       = errors.New("not found")
	errDuplicateEmail = errors.New("email already exists")
	errBadCredentials = errors.New("invalid username or password")
)

type account struct {
	api.User
	password string
}

type image struct {
	contentType string
	data        []byte
}

// dataset is the backend's in-memory state.
type dataset struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      []*account
	books      []*api.Book
	categories []string
	tokens     map[string]string // token -> user id
	images     map[string]image  // folder/name -> image
}

func newDataset(now func() time.Time) *dataset {
	return &dataset{
		now:    now,
		tokens: make(map[string]string),
		images: make(map[string]image),
	}
}

func (d *dataset) userByEmailLocked(email string) *account {
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (d *dataset) userByIDLocked(id string) (int, *account) {
	for i, u := range d.users {
		if u.ID == id {
			return i, u
		}
	}
	return -1, nil
}

func (d *dataset) addUserLocked(fullName, email, phone, password, role string) (*account, error) {
	if d.userByEmailLocked(email) != nil {
		return nil, errDuplicateEmail
	}
	now := d.now()
	u := &account{
		User: api.User{
			ID:        uuid.NewString(),
			FullName:  fullName,
			Email:     email,
			Phone:     phone,
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		password: password,
	}
	d.users = append(d.users, u)
	return u, nil
}

func (d *dataset) addUser(fullName, email, phone, password, role string) (api.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, err := d.addUserLocked(fullName, email, phone, password, role)
	if err != nil {
		return api.User{}, err
	}
	return u.User, nil
}

// bulkAdd creates every user it can. Missing emails and duplicates, both
// against existing users and within the batch, count as failures.
func (d *dataset) bulkAdd(users []api.BulkUser) api.ImportOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out api.ImportOutcome
	for _, u := range users {
		if strings.TrimSpace(u.Email) == "" {
			out.CountFail++
			continue
		}
		if _, err := d.addUserLocked(u.FullName, u.Email, u.Phone, u.Password, api.RoleUser); err != nil {
			out.CountFail++
			continue
		}
		out.CountSuccess++
	}
	return out
}

func (d *dataset) updateUser(in api.UpdateUserInput) (api.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, u := d.userByIDLocked(in.ID)
	if u == nil {
		return api.User{}, errNotFound
	}
	u.FullName = in.FullName
	u.Phone = in.Phone
	u.UpdatedAt = d.now()
	return u.User, nil
}

func (d *dataset) deleteUser(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, _ := d.userByIDLocked(id)
	if i < 0 {
		return errNotFound
	}
	d.users = slices.Delete(d.users, i, i+1)
	for tok, uid := range d.tokens {
		if uid == id {
			delete(d.tokens, tok)
		}
	}
	return nil
}

func (d *dataset) listUsers() []api.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]api.User, len(d.users))
	for i, u := range d.users {
		out[i] = u.User
	}
	return out
}

func (d *dataset) login(email, password string) (string, api.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := d.userByEmailLocked(email)
	if u == nil || u.password != password {
		return "", api.User{}, errBadCredentials
	}
	token := uuid.NewString()
	d.tokens[token] = u.ID
	return token, u.User, nil
}

func (d *dataset) logout(token string) {
	d.mu.Lock()
	delete(d.tokens, token)
	d.mu.Unlock()
}

func (d *dataset) userForToken(token string) (api.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.tokens[token]
	if !ok {
		return api.User{}, false
	}
	_, u := d.userByIDLocked(id)
	if u == nil {
		return api.User{}, false
	}
	return u.User, true
}

func (d *dataset) bookIndexLocked(id string) int {
	return slices.IndexFunc(d.books, func(b *api.Book) bool { return b.ID == id })
}

func (d *dataset) addBook(in api.BookInput) api.Book {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	b := &api.Book{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	setBook(b, in, now)
	d.books = append(d.books, b)
	d.addCategoryLocked(in.Category)
	return *b
}

func (d *dataset) updateBook(id string, in api.BookInput) (api.Book, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.bookIndexLocked(id)
	if i < 0 {
		return api.Book{}, errNotFound
	}
	setBook(d.books[i], in, d.now())
	d.addCategoryLocked(in.Category)
	return *d.books[i], nil
}

func setBook(b *api.Book, in api.BookInput, now time.Time) {
	b.MainText = in.MainText
	b.Author = in.Author
	b.Price = in.Price
	b.Quantity = in.Quantity
	b.Category = in.Category
	b.Thumbnail = in.Thumbnail
	b.Slider = slices.Clone(in.Slider)
	b.UpdatedAt = now
}

func (d *dataset) book(id string) (api.Book, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.bookIndexLocked(id)
	if i < 0 {
		return api.Book{}, errNotFound
	}
	return *d.books[i], nil
}

func (d *dataset) deleteBook(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.bookIndexLocked(id)
	if i < 0 {
		return errNotFound
	}
	d.books = slices.Delete(d.books, i, i+1)
	return nil
}

func (d *dataset) listBooks() []api.Book {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]api.Book, len(d.books))
	for i, b := range d.books {
		out[i] = *b
	}
	return out
}

func (d *dataset) addCategoryLocked(c string) {
	if c != "" && !slices.Contains(d.categories, c) {
		d.categories = append(d.categories, c)
	}
}

func (d *dataset) listCategories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.categories)
}

func (d *dataset) putImage(folder, name, contentType string, data []byte) {
	d.mu.Lock()
	d.images[folder+"/"+name] = image{contentType: contentType, data: data}
	d.mu.Unlock()
}

func (d *dataset) lookupImage(folder, name string) (image, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	img, ok := d.images[folder+"/"+name]
	return img, ok
}

func userField(u api.User, field string) (any, bool) {
	switch field {
	case "_id":
		return u.ID, true
	case "fullName":
		return u.FullName, true
	case "email":
		return u.Email, true
	case "phone":
		return u.Phone, true
	case "role":
		return u.Role, true
	case "createdAt":
		return u.CreatedAt, true
	case "updatedAt":
		return u.UpdatedAt, true
	}
	return nil, false
}

func bookField(b api.Book, field string) (any, bool) {
	switch field {
	case "_id":
		return b.ID, true
	case "mainText":
		return b.MainText, true
	case "author":
		return b.Author, true
	case "category":
		return b.Category, true
	case "price":
		return b.Price, true
	case "quantity":
		return int64(b.Quantity), true
	case "sold":
		return int64(b.Sold), true
	case "createdAt":
		return b.CreatedAt, true
	case "updatedAt":
		return b.UpdatedAt, true
	}
	return nil, false
}
