package eventControllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/souqly/souqly-api/middleware"
	"github.com/souqly/souqly-api/models"
)

const (
	trendingWindow   = 7 * 24 * time.Hour
	trendingLimit    = 20
	trendingCacheKey = "feed:trending"
	trendingCacheTTL = 5 * time.Minute
	personalCacheTTL = 2 * time.Minute
)

type ViewInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// POST /events/view
//
// The event row and the two aggregate counters land together or not at all:
// a partial write would leave the counters out of step with the log.
func RecordView(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ViewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			event := models.EventLog{
				UserID:    userID,
				ProductID: product.ID,
				EventType: models.EventView,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("product_stats.views + 1")}),
			}).Create(&models.ProductStat{ProductID: product.ID, Views: 1}).Error; err != nil {
				return err
			}

			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "seller_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("seller_stats.views + 1")}),
			}).Create(&models.SellerStat{SellerID: product.SellerID, Views: 1}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"recorded": true})
	}
}

// POST /events/cart
//
// Same all-or-nothing grouping for add-to-cart interactions, minus the
// seller counter.
func RecordCartEvent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ViewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			event := models.EventLog{
				UserID:    userID,
				ProductID: product.ID,
				EventType: models.EventCart,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"cart_adds": gorm.Expr("product_stats.cart_adds + 1")}),
			}).Create(&models.ProductStat{ProductID: product.ID, CartAdds: 1}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"recorded": true})
	}
}

type trendingEntry struct {
	Product models.Product `json:"product"`
	Score   int64          `json:"score"`
}

// GET /feed/trending
//
// Recent events grouped by product and counted. Results are cached in
// Redis when a client is configured; rdb may be nil.
func Trending(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if rdb != nil {
			if cached, err := rdb.Get(ctx, trendingCacheKey).Result(); err == nil {
				var entries []trendingEntry
				if json.Unmarshal([]byte(cached), &entries) == nil {
					c.JSON(http.StatusOK, gin.H{"trending": entries, "cached": true})
					return
				}
			}
		}

		entries, err := computeTrending(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trending feed"})
			return
		}

		if rdb != nil {
			if data, err := json.Marshal(entries); err == nil {
				if err := rdb.Set(context.Background(), trendingCacheKey, data, trendingCacheTTL).Err(); err != nil {
					log.Printf("failed to cache trending feed: %v", err)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"trending": entries, "cached": false})
	}
}

func computeTrending(db *gorm.DB) ([]trendingEntry, error) {
	type row struct {
		ProductID uint
		Score     int64
	}
	var rows []row
	err := db.Model(&models.EventLog{}).
		Select("product_id, COUNT(*) AS score").
		Where("created_at > ?", time.Now().Add(-trendingWindow)).
		Group("product_id").
		Order("score DESC").
		Limit(trendingLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]trendingEntry, 0, len(rows))
	for _, r := range rows {
		var product models.Product
		if err := db.First(&product, "id = ?", r.ProductID).Error; err != nil {
			// Product may have been soft-deleted since the events landed.
			continue
		}
		entries = append(entries, trendingEntry{Product: product, Score: r.Score})
	}
	return entries, nil
}

// GET /feed
//
// Personal feed: products matching the caller's interest tags ranked by
// view counters, topped up with trending items when thin. Cached per user
// with a shorter TTL than the trending feed; rdb may be nil.
func PersonalFeed(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		cacheKey := "feed:user:" + userID
		if rdb != nil {
			if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
				var products []models.Product
				if json.Unmarshal([]byte(cached), &products) == nil {
					c.JSON(http.StatusOK, gin.H{"feed": products, "cached": true})
					return
				}
			}
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var products []models.Product
		tags := user.InterestTags()
		if len(tags) > 0 {
			query := db.Model(&models.Product{})
			for i, tag := range tags {
				if i == 0 {
					query = query.Where("tags LIKE ?", "%"+tag+"%")
				} else {
					query = query.Or("tags LIKE ?", "%"+tag+"%")
				}
			}
			if err := query.
				Joins("LEFT JOIN product_stats ON product_stats.product_id = products.id").
				Order("product_stats.views DESC NULLS LAST").
				Limit(trendingLimit).
				Find(&products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
				return
			}
		}

		if len(products) < trendingLimit {
			trending, err := computeTrending(db)
			if err == nil {
				seen := make(map[uint]bool, len(products))
				for _, p := range products {
					seen[p.ID] = true
				}
				for _, t := range trending {
					if len(products) >= trendingLimit {
						break
					}
					if !seen[t.Product.ID] {
						products = append(products, t.Product)
					}
				}
			}
		}

		if rdb != nil {
			if data, err := json.Marshal(products); err == nil {
				if err := rdb.Set(context.Background(), cacheKey, data, personalCacheTTL).Err(); err != nil {
					log.Printf("failed to cache personal feed: %v", err)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"feed": products, "cached": false})
	}
}
