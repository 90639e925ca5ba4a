package web

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	sessionName = "sf_session"

	keyUserID   = "user_id"
	keyCart     = "cart"      // cart.Encode output
	keyClientID = "client_id" // stable per-browser id for the dedup guard

	ctxUser = "currentUser"
)

func sessionUserID(c *gin.Context) uint {
	id, _ := sessions.Default(c).Get(keyUserID).(uint)
	return id
}

func setSessionUser(c *gin.Context, u models.User) error {
	sess := sessions.Default(c)
	sess.Set(keyUserID, u.ID)
	return sess.Save()
}

// currentUser is set by mustLogin and mustAdmin.
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		return v.(*models.User)
	}
	return nil
}

// optionalUser loads the session user, if any, without requiring one.
func (s *Server) optionalUser(c *gin.Context) (*models.User, error) {
	id := sessionUserID(c)
	if id == 0 {
		return nil, nil
	}
	u, err := s.store.GetUser(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------- auth middlewares ----------

func (s *Server) mustLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.requireUser(c, false)
	}
}

func (s *Server) mustAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.requireUser(c, true)
	}
}

func (s *Server) requireUser(c *gin.Context, admin bool) {
	u, err := s.optionalUser(c)
	if err != nil {
		s.fail(c, err)
		c.Abort()
		return
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	if admin && !u.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	c.Set(ctxUser, u)
	c.Next()
}

// ---------- cart in sessions ----------

func loadCart(c *gin.Context) *cart.Cart {
	raw, _ := sessions.Default(c).Get(keyCart).(string)
	return cart.Decode(raw)
}

// maxCartBytes keeps the encoded cart, once signed and base64 encoded twice
// by securecookie, under its 4096 byte limit.
const maxCartBytes = 2000

// saveCart stores the cart in the session. An encoding over maxCartBytes
// yields cart.ErrFull and leaves the session untouched.
func saveCart(c *gin.Context, ct *cart.Cart) error {
	sess := sessions.Default(c)
	enc := ct.Encode()
	if len(enc) > maxCartBytes {
		return cart.ErrFull
	}
	if enc != "" {
		sess.Set(keyCart, enc)
	} else {
		sess.Delete(keyCart)
	}
	return sess.Save()
}

// clientID returns the browser's id, minting one on first use. The caller
// saves the session.
func clientID(c *gin.Context) string {
	sess := sessions.Default(c)
	if id, ok := sess.Get(keyClientID).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Set(keyClientID, id)
	return id
}
