package handlers

import (
	"context"
	"strconv"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

var testProducts = []models.Product{
	{ID: 1, Name: "Bissap", Price: 1000, Description: "Jus de bissap", Image: "img/bissap.png", Category: "Boissons"},
	{ID: 2, Name: "Thiakry", Price: 1500, Description: "Dessert au mil", Image: "img/thiakry.png", Category: "Desserts"},
	{ID: 3, Name: "Fataya", Price: 300, Description: "", Image: "https://cdn.example.com/fataya.jpg", Category: "Snacks"},
	{ID: 4, Name: "Yassa", Price: 2500, Description: "Poulet yassa", Image: "img/yassa.png", Category: "Plats"},
}

// newTestCatalog returns a loader backed by an in-memory remote store holding testProducts
func newTestCatalog() *catalog.Loader {
	return catalog.NewLoader(store.NewMemory(testProducts), "testdata/missing.json", logger.New("error"))
}

// rawStore answers selects with a fixed payload
type rawStore string

func (s rawStore) Name() string { return "raw" }

func (s rawStore) SelectProducts(context.Context) (store.Response, error) {
	return store.Response(s), nil
}

func (s rawStore) InsertProduct(context.Context, models.Product) error { return nil }

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
