package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/scopteam/scopbackend/controllers"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/middleware"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}
	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("ensure indexes: ", err)
	}

	//seeding the agent account
	profilesCol := database.OpenCollection("profiles")
	if err := utils.SeedAgentUser(ctx, profilesCol); err != nil {
		log.Fatal(err)
	}

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	log.Printf("Env config origins list: %q", origins)
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/signup", controllers.Signup())
	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())

	me := r.Group("/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", controllers.GetMyProfile())
		me.POST("/password", controllers.ChangeMyPassword())
	}

	client := r.Group("/client")
	client.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleClient))
	{
		client.GET("/dashboard", controllers.GetDashboard())

		client.POST("/requests", controllers.CreateRequest())
		client.PATCH("/requests/:id", controllers.UpdateRequest())
		client.DELETE("/requests/:id", controllers.DeleteRequest())
		client.POST("/requests/reorder", controllers.ReorderItems())
		client.POST("/requests/move", controllers.MoveItems())
		client.GET("/requests/:id/offers", controllers.ListVisibleOffers())

		client.POST("/selection/toggle", controllers.ToggleSelection())

		client.POST("/groups", controllers.CreateGroup())
		client.PATCH("/groups/:id", controllers.UpdateGroup())
		client.DELETE("/groups/:id", controllers.DeleteGroup())

		client.POST("/companies", controllers.CreateCompany())
		client.GET("/companies", controllers.ListCompanies())
		client.PATCH("/companies/:id", controllers.UpdateCompany())
		client.DELETE("/companies/:id", controllers.DeleteCompany())

		client.POST("/invoice-requests", controllers.CreateInvoiceRequest())
		client.GET("/invoice-requests", controllers.ListMyInvoiceRequests())
		client.GET("/invoices", controllers.ListMyInvoices())

		client.GET("/orders", controllers.ListMyOrders())
	}

	agent := r.Group("/agent")
	agent.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAgent))
	{
		agent.GET("/requests", controllers.ListAllRequests())
		agent.GET("/requests/:id/offers", controllers.ListOffersForRequest())
		agent.POST("/requests/:id/offers", controllers.CreateOffer())

		agent.PATCH("/offers/:id", controllers.UpdateOffer())
		agent.PATCH("/offers/:id/visibility", controllers.SetOfferVisibility())
		agent.DELETE("/offers/:id", controllers.DeleteOffer())

		agent.GET("/invoice-requests", controllers.ListInvoiceRequests())
		agent.POST("/invoice-requests/:id/invoice", controllers.GenerateInvoice())
		agent.POST("/invoice-details", controllers.GetInvoiceDetails())
		agent.GET("/invoices", controllers.ListInvoices())
		agent.PATCH("/invoices/:id/status", controllers.UpdateInvoiceStatus())

		agent.POST("/companies", controllers.CreateAgentCompany())
		agent.GET("/companies", controllers.ListAgentCompanies())
		agent.PATCH("/companies/:id", controllers.UpdateAgentCompany())
		agent.DELETE("/companies/:id", controllers.DeleteAgentCompany())

		agent.POST("/orders", controllers.CreateOrder())
		agent.GET("/orders", controllers.ListOrders())
		agent.POST("/orders/:id/events", controllers.AddOrderEvent())
		agent.PATCH("/orders/:id/status", controllers.UpdateOrderStatus())
	}

	// Start server on port 8080 (default)
	r.Run()
}
