package cartControllers

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
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Variant{}, &models.CartItem{},
	))
	return db
}

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newRouter(db *gorm.DB, userID string) *gin.Engine {
	r := gin.New()
	grp := r.Group("/user/cart", authAs(userID))
	grp.GET("/", ListLines(db))
	grp.POST("/", AddLine(db))
	grp.PUT("/:id", UpdateLine(db))
	grp.DELETE("/", RemoveLine(db))
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

func seedProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	product := models.Product{
		Name:     "Canvas Sneaker",
		Price:    39.90,
		Stock:    10,
		SellerID: "seller-1",
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestAddLineRepeatedAddsAccumulate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	r := newRouter(db, "buyer-1")

	attrs := map[string]string{"size": "M", "color": "red"}
	for _, qty := range []int{2, 3} {
		w := doJSON(r, http.MethodPost, "/user/cart/", gin.H{
			"product_id": product.ID,
			"quantity":   qty,
			"attributes": attrs,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var lines []models.CartItem
	require.NoError(t, db.Where("user_id = ?", "buyer-1").Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddLineAttributeOrderCollapses(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodPost, "/user/cart/", gin.H{
		"product_id": product.ID,
		"quantity":   1,
		"attributes": map[string]string{"size": "M", "color": "red"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/user/cart/", gin.H{
		"product_id": product.ID,
		"quantity":   1,
		"attributes": map[string]string{"color": "red", "size": "M"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddLineDifferentVariantsStaySeparate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	variant := models.Variant{ProductID: product.ID, SKU: "SNK-M", Price: 42, Stock: 4}
	require.NoError(t, db.Create(&variant).Error)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodPost, "/user/cart/", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/user/cart/", gin.H{
		"product_id": product.ID, "variant_id": variant.ID, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAddLineUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodPost, "/user/cart/", gin.H{"product_id": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddLineSnapshotsProductData(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodPost, "/user/cart/", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	var line models.CartItem
	require.NoError(t, db.First(&line).Error)
	assert.Equal(t, product.Price, line.PriceSnap)
	assert.Equal(t, product.SellerID, line.SellerID)
}

func TestUpdateLineReplacesQuantity(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/user/cart/%d", line.ID), gin.H{"quantity": 7})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.CartItem
	require.NoError(t, db.First(&got, line.ID).Error)
	assert.Equal(t, 7, got.Quantity)
}

func TestUpdateLineRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "buyer-1")

	for _, qty := range []int{0, -3} {
		w := doJSON(r, http.MethodPut, fmt.Sprintf("/user/cart/%d", line.ID), gin.H{"quantity": qty})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	var got models.CartItem
	require.NoError(t, db.First(&got, line.ID).Error)
	assert.Equal(t, 2, got.Quantity, "stored quantity must be unchanged")
}

func TestUpdateLineForeignOwner(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "intruder")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/user/cart/%d", line.ID), gin.H{"quantity": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var got models.CartItem
	require.NoError(t, db.First(&got, line.ID).Error)
	assert.Equal(t, 2, got.Quantity)
}

func TestRemoveLine(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/user/cart/?id=%d", line.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting a missing line is not idempotent: second call is a 404.
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/user/cart/?id=%d", line.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveLineForeignOwner(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "intruder")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/user/cart/?id=%d", line.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRemoveLineMissingID(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodDelete, "/user/cart/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLinesJoinsLiveData(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db)
	line := models.CartItem{UserID: "buyer-1", ProductID: product.ID, Quantity: 1}
	require.NoError(t, db.Create(&line).Error)
	r := newRouter(db, "buyer-1")

	w := doJSON(r, http.MethodGet, "/user/cart/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ID      uint `json:"id"`
			Product *struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Product)
	assert.Equal(t, "Canvas Sneaker", resp.Items[0].Product.Name)
}
