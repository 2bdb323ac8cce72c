package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/menu-manager/docs"
	v1 "github.com/yizeng/gab/gin/gorm/menu-manager/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/api/handler/web"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/config"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/events"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/menuui"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/repository"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/service"
)

const basePath = "/api"

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Events  *v1.MenuEventsHandler
	Metrics *middleware.Metrics
}

// NewServer wires the handlers over db. Every committed change goes to the
// websocket subscribers and to the extra publishers, if any.
func NewServer(conf *config.AppConfig, db *gorm.DB, publishers ...events.Publisher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Events:  v1.NewMenuEventsHandler(conf.API.AllowedCORSDomains),
		Metrics: middleware.NewMetrics(),
	}

	s.MountMiddlewares()

	svc := s.initMenuItemService(db, publishers)
	menuItemHandler := v1.NewMenuItemHandler(svc)
	menuPageHandler := s.initMenuPageHandler(svc)
	s.MountHandlers(menuItemHandler, menuPageHandler)

	return s
}

func (s *Server) initMenuItemService(db *gorm.DB, publishers []events.Publisher) *service.MenuItemService {
	menuItemDAO := dao.NewMenuItemDAO(db)
	repo := repository.NewMenuItemRepository(menuItemDAO)
	publisher := append(events.Multi{s.Events}, publishers...)
	svc := service.NewMenuItemService(repo, publisher)

	return svc
}

func (s *Server) initMenuPageHandler(svc *service.MenuItemService) *web.MenuPageHandler {
	var opts []menuui.Option
	if s.Config.API.RefetchAfterMutation {
		opts = append(opts, menuui.WithRefetch())
	}

	return web.NewMenuPageHandler(svc, opts...)
}

func (s *Server) MountMiddlewares() {
	// Recovery is needed unless we use gin.Default().
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(s.Metrics.Middleware())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(menuItemHandler *v1.MenuItemHandler, menuPageHandler *web.MenuPageHandler) {
	menuItems := s.Router.Group(basePath)
	{
		menuItems.GET("/menu-items", menuItemHandler.HandleListMenuItems)
		menuItems.POST("/menu-items", menuItemHandler.HandleCreateMenuItem)
		menuItems.GET("/menu-items/events", s.Events.HandleWebSocket)
		menuItems.PUT("/menu-items/:id", menuItemHandler.HandleUpdateMenuItem)
		menuItems.DELETE("/menu-items/:id", menuItemHandler.HandleDeleteMenuItem)
	}

	s.Router.SetHTMLTemplate(web.Templates())
	page := s.Router.Group("/menu")
	{
		page.GET("", menuPageHandler.HandleShowMenu)
		page.POST("", menuPageHandler.HandleSubmitMenu)
		page.POST("/:id/delete", menuPageHandler.HandleDeleteMenuItem)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Menu Items API"
	docs.SwaggerInfo.Description = "Create, list, update and delete restaurant menu items."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
