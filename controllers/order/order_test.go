package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/souqly/souqly-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func newRouter(db *gorm.DB, userID string) *gin.Engine {
	r := gin.New()
	withAuth := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
	r.PUT("/seller/orders/:orderID/items/:itemID/status", withAuth, UpdateItemStatus(db))
	r.GET("/orders/user", withAuth, ListUserOrders(db))
	r.GET("/orders/:orderID", withAuth, GetOrder(db))
	r.GET("/seller/orders", withAuth, ListSellerItems(db))
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	order := models.Order{
		OrderRef:      "ref-1",
		UserID:        "buyer-1",
		PaymentStatus: models.PaymentStatusPaid,
		Items: []models.OrderItem{
			{ProductName: "Lamp", SellerID: "s1", Quantity: 1, Status: models.ItemStatusProcessing},
			{ProductName: "Mug", SellerID: "s2", Quantity: 2, Status: models.ItemStatusProcessing},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestUpdateItemStatus(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)
	r := newRouter(db, "s1")

	path := fmt.Sprintf("/seller/orders/%d/items/%d/status", order.ID, order.Items[0].ID)
	w := doJSON(r, http.MethodPut, path, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.OrderItem
	require.NoError(t, db.First(&got, order.Items[0].ID).Error)
	assert.Equal(t, models.ItemStatusShipped, got.Status)

	// The sibling is untouched.
	var sibling models.OrderItem
	require.NoError(t, db.First(&sibling, order.Items[1].ID).Error)
	assert.Equal(t, models.ItemStatusProcessing, sibling.Status)
}

func TestUpdateItemStatusInvalid(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)
	r := newRouter(db, "s1")

	path := fmt.Sprintf("/seller/orders/%d/items/%d/status", order.ID, order.Items[0].ID)
	w := doJSON(r, http.MethodPut, path, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got models.OrderItem
	require.NoError(t, db.First(&got, order.Items[0].ID).Error)
	assert.Equal(t, models.ItemStatusProcessing, got.Status)
}

func TestUpdateItemStatusWrongOrder(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)
	r := newRouter(db, "s1")

	path := fmt.Sprintf("/seller/orders/%d/items/%d/status", order.ID+99, order.Items[0].ID)
	w := doJSON(r, http.MethodPut, path, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItemStatusScopedToSeller(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)

	// The Mug belongs to s2; s1 can neither transition it nor learn it
	// exists.
	path := fmt.Sprintf("/seller/orders/%d/items/%d/status", order.ID, order.Items[1].ID)
	w := doJSON(newRouter(db, "s1"), http.MethodPut, path, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var got models.OrderItem
	require.NoError(t, db.First(&got, order.Items[1].ID).Error)
	assert.Equal(t, models.ItemStatusProcessing, got.Status)
}

func TestAllDeliveredComputedButNotPersisted(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)

	for i, item := range order.Items {
		path := fmt.Sprintf("/seller/orders/%d/items/%d/status", order.ID, item.ID)
		w := doJSON(newRouter(db, item.SellerID), http.MethodPut, path, gin.H{"status": "delivered"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			AllDelivered bool `json:"all_delivered"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, i == len(order.Items)-1, resp.AllDelivered)
	}

	// The order row itself is unchanged: every item being delivered does
	// not flip any order-level field.
	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "ref-1", got.OrderRef)
}

func TestListUserOrders(t *testing.T) {
	db := newTestDB(t)
	seedOrder(t, db)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodGet, "/orders/user", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)

	w := doJSON(newRouter(db, "buyer-1"), http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(newRouter(db, "someone-else"), http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderByRef(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodGet, "/orders/ref-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Items, 2)

	w = doJSON(r, http.MethodGet, "/orders/no-such-ref", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSellerItemsFiltersBySeller(t *testing.T) {
	db := newTestDB(t)
	seedOrder(t, db)
	r := newRouter(db, "s1")

	w := doJSON(r, http.MethodGet, "/seller/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.OrderItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Lamp", resp.Items[0].ProductName)
}
