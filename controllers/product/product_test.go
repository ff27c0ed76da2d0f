package productControllers

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
		&models.User{}, &models.Category{}, &models.Brand{},
		&models.Product{}, &models.Variant{},
	))
	return db
}

func newRouter(db *gorm.DB, sellerID string) *gin.Engine {
	r := gin.New()
	r.GET("/products", ListProducts(db))
	r.GET("/products/:id", GetProduct(db))

	seller := r.Group("/seller", func(c *gin.Context) {
		c.Set("user_id", sellerID)
		c.Next()
	})
	seller.POST("/products", CreateProduct(db))
	seller.PUT("/products/:id", UpdateProduct(db))
	seller.DELETE("/products/:id", DeleteProduct(db))
	seller.POST("/products/:id/variants", CreateVariant(db))
	seller.PUT("/products/:id/variants/:variantID", UpdateVariant(db))
	seller.DELETE("/products/:id/variants/:variantID", DeleteVariant(db))
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

func TestSellerScopedWrites(t *testing.T) {
	db := newTestDB(t)
	owner := newRouter(db, "seller-1")

	w := doJSON(owner, http.MethodPost, "/seller/products", gin.H{
		"name": "Lamp", "price": 25.0, "stock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "seller-1", product.SellerID)

	// A different seller cannot touch it, and cannot learn it exists.
	other := newRouter(db, "seller-2")
	w = doJSON(other, http.MethodPut, fmt.Sprintf("/seller/products/%d", product.ID), gin.H{
		"name": "Hijacked", "price": 1.0, "stock": 0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(other, http.MethodDelete, fmt.Sprintf("/seller/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var unchanged models.Product
	require.NoError(t, db.First(&unchanged, "id = ?", product.ID).Error)
	assert.Equal(t, "Lamp", unchanged.Name)
}

func TestVariantWritesKeepAggregateStock(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, "seller-1")

	w := doJSON(r, http.MethodPost, "/seller/products", gin.H{
		"name": "Shirt", "price": 15.0, "stock": 99,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	variantsPath := fmt.Sprintf("/seller/products/%d/variants", product.ID)
	w = doJSON(r, http.MethodPost, variantsPath, gin.H{"sku": "S", "price": 15.0, "stock": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(r, http.MethodPost, variantsPath, gin.H{"sku": "M", "price": 15.0, "stock": 5})
	require.Equal(t, http.StatusCreated, w.Code)
	var medium models.Variant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &medium))

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 8, stored.Stock)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("%s/%d", variantsPath, medium.ID),
		gin.H{"sku": "M", "price": 15.0, "stock": 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 4, stored.Stock)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("%s/%d", variantsPath, medium.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 3, stored.Stock)
}

func TestVariantRoutesRequireOwnership(t *testing.T) {
	db := newTestDB(t)
	product := models.Product{Name: "Lamp", Price: 10, Stock: 2, SellerID: "seller-1"}
	require.NoError(t, db.Create(&product).Error)

	other := newRouter(db, "seller-2")
	w := doJSON(other, http.MethodPost, fmt.Sprintf("/seller/products/%d/variants", product.ID),
		gin.H{"sku": "X", "price": 10.0, "stock": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	category := models.Category{Name: "Lighting"}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Desk Lamp", Price: 25, Stock: 1, SellerID: "s1", CategoryID: category.ID, Tags: "lamp,desk",
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Floor Lamp", Price: 80, Stock: 1, SellerID: "s1", CategoryID: category.ID, Tags: "lamp,floor",
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Teapot", Price: 12, Stock: 1, SellerID: "s1",
	}).Error)

	r := newRouter(db, "s1")

	var resp struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/products?category=%d", category.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Total)

	w = doJSON(r, http.MethodGet, "/products?q=Teapot", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Teapot", resp.Products[0].Name)

	w = doJSON(r, http.MethodGet, "/products?min_price=20&max_price=30", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Desk Lamp", resp.Products[0].Name)

	w = doJSON(r, http.MethodGet, "/products?limit=2&page=2", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Products, 1)
}

func TestDeletedProductDisappearsFromCatalog(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db, "seller-1")

	w := doJSON(r, http.MethodPost, "/seller/products", gin.H{"name": "Lamp", "price": 25.0, "stock": 4})
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/seller/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
