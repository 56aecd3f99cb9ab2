// Package foodsserver wires the gin transport for the marketplace API:
// route table, request models, and handler glue over the bounded contexts.
package foodsserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route defines the parameters for a single API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	Protected   bool
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers for every bounded context exposed
// over HTTP.
type ApiHandleFunctions struct {
	AuthAPI   AuthAPI
	FoodsAPI  FoodsAPI
	OrdersAPI OrdersAPI
}

// NewRouter returns a new router with all API routes attached. Protected
// routes run the auth middleware before their handler; public routes do not.
// Global middleware must be passed here: gin freezes each route's handler
// chain at registration, so middleware added after the fact never runs.
func NewRouter(handleFunctions ApiHandleFunctions, requireAuth gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Protected && requireAuth != nil {
			handlers = []gin.HandlerFunc{requireAuth, route.HandlerFunc}
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// DefaultHandleFunc returns 200 with an empty body for unimplemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusOK, "")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			Name:        "Index",
			Method:      http.MethodGet,
			Pattern:     "/",
			HandlerFunc: Index,
		},
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: Healthz,
		},
		{
			Name:        "IssueToken",
			Method:      http.MethodPost,
			Pattern:     "/jwt",
			HandlerFunc: handleFunctions.AuthAPI.IssueToken,
		},
		{
			Name:        "ListFoods",
			Method:      http.MethodGet,
			Pattern:     "/foods",
			HandlerFunc: handleFunctions.FoodsAPI.ListFoods,
		},
		{
			Name:        "AddFood",
			Method:      http.MethodPost,
			Pattern:     "/foods",
			Protected:   true,
			HandlerFunc: handleFunctions.FoodsAPI.AddFood,
		},
		{
			Name:        "TopFoods",
			Method:      http.MethodGet,
			Pattern:     "/top-foods",
			HandlerFunc: handleFunctions.FoodsAPI.TopFoods,
		},
		{
			Name:        "GetFood",
			Method:      http.MethodGet,
			Pattern:     "/foods/:id",
			HandlerFunc: handleFunctions.FoodsAPI.GetFood,
		},
		{
			Name:        "UpdateFood",
			Method:      http.MethodPut,
			Pattern:     "/foods/:id",
			Protected:   true,
			HandlerFunc: handleFunctions.FoodsAPI.UpdateFood,
		},
		{
			Name:        "DeleteFood",
			Method:      http.MethodDelete,
			Pattern:     "/foods/:id",
			Protected:   true,
			HandlerFunc: handleFunctions.FoodsAPI.DeleteFood,
		},
		{
			Name:        "MyFoods",
			Method:      http.MethodGet,
			Pattern:     "/my-foods/:email",
			Protected:   true,
			HandlerFunc: handleFunctions.FoodsAPI.MyFoods,
		},
		{
			Name:        "Purchase",
			Method:      http.MethodPost,
			Pattern:     "/purchase",
			Protected:   true,
			HandlerFunc: handleFunctions.OrdersAPI.Purchase,
		},
		{
			Name:        "ListOrders",
			Method:      http.MethodGet,
			Pattern:     "/orders/:email",
			Protected:   true,
			HandlerFunc: handleFunctions.OrdersAPI.ListOrders,
		},
		{
			Name:        "CancelOrder",
			Method:      http.MethodDelete,
			Pattern:     "/orders/:id",
			Protected:   true,
			HandlerFunc: handleFunctions.OrdersAPI.CancelOrder,
		},
	}
}

// Index greets API consumers at the root.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "food marketplace api"})
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
