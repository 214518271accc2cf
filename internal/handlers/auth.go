package handlers

import (
	"net/http"

	"catalog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and login.
type authCredentials struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}

const errInvalidBody = "Invalid request body"

// setSessionCookie writes the HTTP-only, same-site session cookie.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, value, maxAge, "/", "", h.opts.CookieSecure, true)
}

// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      201   {object}  map[string]interface{}  "user"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	user, err := h.services.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_register_failed")
		return
	}
	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", user.ID, "username", user.Username)
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// @Summary      Log in
// @Description  Any credential failure answers the same 401 body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "ok, user"
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, service.ErrInvalidCredentials, "")
		return
	}

	token, user, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthorized && h.log != nil {
			h.log.Infow("auth_login_failed")
		}
		h.respondError(c, err, "auth_login_failed")
		return
	}

	h.setSessionCookie(c, token, int(h.opts.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.opts.CookieName); err == nil && token != "" {
		if err := h.services.Logout(c.Request.Context(), token); err != nil && h.log != nil {
			h.log.Errorw("auth_logout_failed", "err", err)
		}
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Current identity
// @Description  Session snapshot; user is null without a session.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user"
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *Handler) me(c *gin.Context) {
	if err, ok := c.Get(identityErrKey); ok {
		h.respondError(c, err.(error), "auth_me_failed")
		return
	}
	who := identityFrom(c)
	if who.IsAnonymous() {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": who})
}
