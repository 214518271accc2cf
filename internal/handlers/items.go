package handlers

import (
	"net/http"

	"catalog_api/internal/query"

	"github.com/gin-gonic/gin"
)

// ItemRequest documents the item payload for Swagger. Handlers decode bodies
// into a generic object so that missing and mistyped fields can be told apart.
type ItemRequest struct {
	Name     string  `json:"name" example:"iPhone 15"`
	Price    float64 `json:"price" example:"850"`
	Category string  `json:"category,omitempty" example:"smartphone"`
	Brand    string  `json:"brand,omitempty" example:"Apple"`
	SKU      string  `json:"sku,omitempty" example:"SKU-1002"`
	InStock  *bool   `json:"inStock,omitempty" example:"true"`
}

// bindObject decodes a JSON object body. It returns nil for a missing,
// malformed or non-object body.
func bindObject(c *gin.Context) map[string]any {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil
	}
	return payload
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      List items
// @Description  Any other parameter filters by equality; comma-separated values match any of the listed values. "true"/"false" and numeric strings are typed.
// @Tags         items
// @Produce      json
// @Param        sort    query  string  false  "Sort keys, '-' for descending"  example(-price,name)
// @Param        fields  query  string  false  "Projection (id is always included)"  example(name,price)
// @Param        limit   query  int     false  "Max results (default 50, max 200)"
// @Param        skip    query  int     false  "Offset (default 0)"
// @Success      200     {array}   map[string]interface{}
// @Failure      500     {object}  map[string]string
// @Router       /api/items [get]
func (h *Handler) listItems(c *gin.Context) {
	q := query.Parse(c.Request.URL.Query())
	docs, err := h.services.Items.List(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err, "items_list_failed", "query", c.Request.URL.RawQuery)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// @Summary      Get item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/items/{id} [get]
func (h *Handler) getItem(c *gin.Context) {
	id := c.Param("id")
	it, err := h.services.Items.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "items_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      ItemRequest  true  "Item"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/items [post]
func (h *Handler) createItem(c *gin.Context) {
	who := identityFrom(c)
	it, err := h.services.Items.Create(c.Request.Context(), bindObject(c), who)
	if err != nil {
		h.respondError(c, err, "items_create_failed", "user_id", who.UserID)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// @Summary      Update item
// @Description  Owner or admin only. Only provided fields are changed.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Item id"
// @Param        body  body      ItemRequest  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/items/{id} [put]
func (h *Handler) updateItem(c *gin.Context) {
	who := identityFrom(c)
	id := c.Param("id")
	it, err := h.services.Items.Update(c.Request.Context(), id, bindObject(c), who)
	if err != nil {
		h.respondError(c, err, "items_update_failed", "id", id, "user_id", who.UserID)
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary      Delete item
// @Description  Owner or admin only.
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  map[string]interface{}  "deleted, item"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/items/{id} [delete]
func (h *Handler) deleteItem(c *gin.Context) {
	who := identityFrom(c)
	id := c.Param("id")
	it, err := h.services.Items.Delete(c.Request.Context(), id, who)
	if err != nil {
		h.respondError(c, err, "items_delete_failed", "id", id, "user_id", who.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "item": it})
}
