package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"placeshare/internal/config"
	"placeshare/internal/database"
	"placeshare/internal/geocode"
	"placeshare/internal/handlers"
	"placeshare/internal/middleware"
	"placeshare/internal/store"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsurePlaceIndexes(db); err != nil {
		log.Printf("place index warning: %v", err)
	}

	users := store.NewMongoUserStore(db)
	places := store.NewMongoPlaceStore(db)
	geocoder := geocode.NewMapboxClient(cfg.MapboxAPIKey)

	r := newRouter(cfg, users, places, geocoder)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("App running on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("forced shutdown:", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Println("mongo disconnect:", err)
	}
}

func newRouter(cfg config.Config, users store.UserStore, places store.PlaceStore, geocoder geocode.Geocoder) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.SecureHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.APIRateLimit))

	auth := middleware.UserAuth(cfg.JWTSecret, users)

	placeRoutes := api.Group("/places")
	{
		placeRoutes.GET("", handlers.GetPlaces(places))
		placeRoutes.GET("/:pid", handlers.GetPlaceByID(places))
		placeRoutes.GET("/user/:uid", handlers.GetPlacesByUser(places))
		placeRoutes.POST("", auth, handlers.CreatePlace(places, users, geocoder))
		placeRoutes.PATCH("/:pid", auth, handlers.UpdatePlace(places))
		placeRoutes.DELETE("/:pid", auth, handlers.DeletePlace(places))
	}

	userRoutes := api.Group("/users")
	{
		userRoutes.GET("", handlers.GetUsers(users))
		userRoutes.POST("/signup", handlers.Signup(users, cfg.JWTSecret, cfg.TokenTTL))
		userRoutes.POST("/login", handlers.Login(users, cfg.JWTSecret, cfg.TokenTTL))
		userRoutes.GET("/logout", handlers.Logout())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Can't find " + c.Request.URL.Path + " on this server!",
		})
	})

	return r
}
