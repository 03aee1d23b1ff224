package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the API the booking page talks to. CORS is open to any
// origin: the page is served separately and authentication is handled
// upstream.
func NewRouter(appointments *AppointmentsHandler, catalog *CatalogHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key", "X-Idempotency-Key")
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/appointments", appointments.List)
		v1.POST("/appointments", appointments.Create)
		v1.GET("/appointments/:id", appointments.Get)
		v1.PUT("/appointments/:id", appointments.Update)
		v1.DELETE("/appointments/:id", appointments.Delete)
		v1.GET("/slots", appointments.Slots)

		v1.GET("/services", catalog.ListServices)
		v1.POST("/services", catalog.CreateService)
		v1.PUT("/services/:id", catalog.UpdateService)
		v1.DELETE("/services/:id", catalog.DeleteService)

		v1.GET("/professionals", catalog.ListProfessionals)
		v1.POST("/professionals", catalog.CreateProfessional)
		v1.PUT("/professionals/:id", catalog.UpdateProfessional)
		v1.DELETE("/professionals/:id", catalog.DeleteProfessional)

		v1.GET("/clients", catalog.ListClients)
		v1.POST("/clients", catalog.CreateClient)
		v1.PUT("/clients/:id", catalog.UpdateClient)
		v1.DELETE("/clients/:id", catalog.DeleteClient)
	}

	return r
}
