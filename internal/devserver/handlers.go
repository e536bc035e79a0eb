package devserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/matheus3301/bookadmin/internal/api"
	"go.uber.org/zap"
)

const (
	ctxUser  = "user"
	ctxToken = "token"
)

// response mirrors the backend envelope.
type response struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func reply(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, response{StatusCode: status, Message: message, Data: data})
}

func fail(c echo.Context, status int, message any) error {
	return c.JSON(status, response{StatusCode: status, Message: message, Error: http.StatusText(status)})
}

func (s *Server) registerRoutes() {
	v1 := s.echo.Group(api.BasePath)
	authed := s.requireAuth(false)
	admin := s.requireAuth(true)

	v1.POST("/auth/login", s.login)
	v1.GET("/auth/account", s.account, authed)
	v1.POST("/auth/logout", s.logout, authed)
	v1.POST("/user/register", s.register)

	v1.GET("/user", s.listUsers, admin)
	v1.POST("/user", s.createUser, admin)
	v1.POST("/user/bulk-create", s.bulkCreateUsers, admin)
	v1.PUT("/user", s.updateUser, admin)
	v1.DELETE("/user/:id", s.deleteUser, admin)

	v1.GET("/book", s.listBooks)
	v1.GET("/book/:id", s.getBook)
	v1.POST("/book", s.createBook, admin)
	v1.PUT("/book/:id", s.updateBook, admin)
	v1.DELETE("/book/:id", s.deleteBook, admin)
	v1.GET("/database/category", s.categories)

	v1.POST("/file/upload", s.upload, admin)
	s.echo.GET("/images/:folder/:name", s.serveImage)
}

func (s *Server) requireAuth(adminOnly bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || token == "" {
				return fail(c, http.StatusUnauthorized, "Token is missing or invalid")
			}
			u, ok := s.data.userForToken(token)
			if !ok {
				return fail(c, http.StatusUnauthorized, "Token is missing or invalid")
			}
			if adminOnly && u.Role != api.RoleAdmin {
				return fail(c, http.StatusForbidden, "Admin role required")
			}
			c.Set(ctxUser, u)
			c.Set(ctxToken, token)
			return next(c)
		}
	}
}

// bindValid binds the JSON body into v and runs the validator. A false return
// means the error response has already been written.
func bindValid(c echo.Context, v any) (bool, error) {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return false, fail(c, http.StatusBadRequest, "Malformed request body")
	}
	if err := c.Validate(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
			}
			return false, fail(c, http.StatusBadRequest, msgs)
		}
		return false, fail(c, http.StatusBadRequest, err.Error())
	}
	return true, nil
}

func toAccount(u api.User) api.Account {
	return api.Account{
		ID:       u.ID,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
}

func (s *Server) login(c echo.Context) error {
	var in api.LoginInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	token, u, err := s.data.login(in.Username, in.Password)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid username or password")
	}
	s.logger.Info("login", zap.String("email", u.Email))
	return reply(c, http.StatusCreated, "User login", api.LoginResult{AccessToken: token, User: toAccount(u)})
}

func (s *Server) account(c echo.Context) error {
	u := c.Get(ctxUser).(api.User)
	return reply(c, http.StatusOK, "Get user information", map[string]api.Account{"user": toAccount(u)})
}

func (s *Server) logout(c echo.Context) error {
	s.data.logout(c.Get(ctxToken).(string))
	return reply(c, http.StatusCreated, "Logout user", "ok")
}

func (s *Server) register(c echo.Context) error {
	var in api.RegisterInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	u, err := s.data.addUser(in.FullName, in.Email, in.Phone, in.Password, api.RoleUser)
	if errors.Is(err, errDuplicateEmail) {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Email %s already exists", in.Email))
	}
	return reply(c, http.StatusCreated, "Register a new user", u)
}

func (s *Server) listUsers(c echo.Context) error {
	q, err := parseListQuery(c.QueryString())
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return reply(c, http.StatusOK, "Fetch user with paginate", apply(s.data.listUsers(), q, userField))
}

func (s *Server) createUser(c echo.Context) error {
	var in api.CreateUserInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	u, err := s.data.addUser(in.FullName, in.Email, in.Phone, in.Password, api.RoleUser)
	if errors.Is(err, errDuplicateEmail) {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Email %s already exists", in.Email))
	}
	return reply(c, http.StatusCreated, "Create a new user", u)
}

func (s *Server) bulkCreateUsers(c echo.Context) error {
	var in []api.BulkUser
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request body")
	}
	out := s.data.bulkAdd(in)
	s.logger.Info("bulk create",
		zap.Int("count_success", out.CountSuccess),
		zap.Int("count_fail", out.CountFail),
	)
	return reply(c, http.StatusCreated, "Bulk create users", out)
}

func (s *Server) updateUser(c echo.Context) error {
	var in api.UpdateUserInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	u, err := s.data.updateUser(in)
	if errors.Is(err, errNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return reply(c, http.StatusOK, "Update a user", u)
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.data.deleteUser(c.Param("id")); err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return reply(c, http.StatusOK, "Delete a user", "ok")
}

func (s *Server) listBooks(c echo.Context) error {
	q, err := parseListQuery(c.QueryString())
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return reply(c, http.StatusOK, "Fetch book with paginate", apply(s.data.listBooks(), q, bookField))
}

func (s *Server) getBook(c echo.Context) error {
	b, err := s.data.book(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "Book not found")
	}
	return reply(c, http.StatusOK, "Fetch a book by id", b)
}

func (s *Server) createBook(c echo.Context) error {
	var in api.BookInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	return reply(c, http.StatusCreated, "Create a new book", s.data.addBook(in))
}

func (s *Server) updateBook(c echo.Context) error {
	var in api.BookInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	b, err := s.data.updateBook(c.Param("id"), in)
	if err != nil {
		return fail(c, http.StatusNotFound, "Book not found")
	}
	return reply(c, http.StatusOK, "Update a book", b)
}

func (s *Server) deleteBook(c echo.Context) error {
	if err := s.data.deleteBook(c.Param("id")); err != nil {
		return fail(c, http.StatusNotFound, "Book not found")
	}
	return reply(c, http.StatusOK, "Delete a book", "ok")
}

func (s *Server) categories(c echo.Context) error {
	return reply(c, http.StatusOK, "Get all categories", s.data.listCategories())
}

func (s *Server) upload(c echo.Context) error {
	folder := c.Request().Header.Get("upload-type")
	if folder == "" {
		folder = c.FormValue("folder")
	}
	if folder == "" || strings.ContainsAny(folder, `/\.`) {
		return fail(c, http.StatusBadRequest, "Invalid upload folder")
	}
	fh, err := c.FormFile("fileImg")
	if err != nil {
		return fail(c, http.StatusBadRequest, "File fileImg is required")
	}
	if fh.Size > api.MaxImageSize {
		return fail(c, http.StatusUnprocessableEntity, "File too large")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, api.MaxImageSize+1))
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return fail(c, http.StatusUnprocessableEntity, "Only JPG/PNG images are accepted")
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(fh.Filename))
	s.data.putImage(folder, name, contentType, data)
	s.logger.Info("image stored", zap.String("folder", folder), zap.String("name", name), zap.Int("bytes", len(data)))
	return reply(c, http.StatusCreated, "Upload single file", map[string]string{"fileUploaded": name})
}

func (s *Server) serveImage(c echo.Context) error {
	img, ok := s.data.lookupImage(c.Param("folder"), c.Param("name"))
	if !ok {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, img.contentType, img.data)
}

// errorHandler renders framework errors, such as unknown routes, in the envelope.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := any(http.StatusText(status))
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = he.Message
		} else {
			logger.Error("handler failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}
		if werr := fail(c, status, message); werr != nil {
			logger.Warn("failed to write error response", zap.Error(werr))
		}
	}
}
