package main

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/KathiraveluLab/BHV/internal/adminlist"
	"github.com/KathiraveluLab/BHV/internal/blobstore"
	"github.com/KathiraveluLab/BHV/internal/boot"
	"github.com/KathiraveluLab/BHV/internal/gate"
	"github.com/KathiraveluLab/BHV/internal/handlers"
	"github.com/KathiraveluLab/BHV/internal/mail"
	"github.com/KathiraveluLab/BHV/internal/oauth"
	"github.com/KathiraveluLab/BHV/internal/sentiment"
	"github.com/KathiraveluLab/BHV/internal/service/admin"
	"github.com/KathiraveluLab/BHV/internal/service/auth"
	"github.com/KathiraveluLab/BHV/internal/service/chat"
	"github.com/KathiraveluLab/BHV/internal/service/role"
	"github.com/KathiraveluLab/BHV/internal/service/upload"
	"github.com/KathiraveluLab/BHV/internal/store"
	"github.com/KathiraveluLab/BHV/internal/token"
	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
)

type Template struct {
	templates *template.Template
	watcher   *fsnotify.Watcher
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (t *Template) Watch() {
	var err error

	t.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-t.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) {
					log.Infof("modified file: %s", event.Name)
					t.templates = template.Must(template.ParseGlob("ui/views/*.html"))
				}
			case err, ok := <-t.watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	err = t.watcher.Add("./ui/views")
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}
}

func (t *Template) Close() {
	if t.watcher != nil {
		t.watcher.Close()
	}
}

func NewTemplate() (*Template, error) {
	t := &Template{
		templates: template.Must(template.ParseGlob("ui/views/*.html")),
	}
	return t, nil
}

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	db, err := store.Open(&config)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}
	defer db.Close()

	blobs, err := blobstore.New(config.DataDirectory)
	if err != nil {
		log.Fatalf("opening blob store: %+v", err)
	}

	identities := store.NewIdentityStore(db)
	codes := store.NewCodeStore(db)
	uploads := store.NewUploadStore(db)
	chats := store.NewChatStore(db)

	resolver := adminlist.NewResolver(adminlist.NewFileSource(config.AdminListPath))
	rolePolicy := role.NewPolicy(resolver, identities)
	authGate := gate.New(rolePolicy)
	tokens := token.NewIssuer(config.TokenSecret)
	mailer := mail.NewSMTP(config.MailHost, config.MailPort, config.MailUsername, config.MailPassword, config.MailSender)

	authService := auth.New(identities, codes, rolePolicy, mailer, config.OTPLength, config.OTPExpiryMinutes)
	uploadService := upload.New(uploads, blobs, sentiment.NewLexicon())
	chatService := chat.New(chats, rolePolicy)
	adminService := admin.New(identities, uploads, chats)
	google := oauth.NewGoogle(config.GoogleClientID, config.GoogleClientSecret, config.GoogleRedirectURL)

	server := echo.New()
	server.Use(middleware.BodyLimit("16M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("bhv"))
	server.Use(middleware.Recover())
	server.Use(handlers.WithActor(authService, tokens))

	server.Logger.SetLevel(log.INFO)

	server.Static("/static", "ui/static")

	t, _ := NewTemplate()
	defer t.Close()
	if config.IsDevelopment() {
		t.Watch()
	}
	server.Renderer = t

	server.GET("/", handlers.Index(rolePolicy))

	server.GET("/register", handlers.RegisterPage())
	server.POST("/register", handlers.Register(authService, tokens))
	server.GET("/verify-otp", handlers.VerifyOTPPage(tokens))
	server.POST("/verify-otp", handlers.VerifyOTP(authService, tokens))
	server.GET("/login", handlers.LoginPage())
	server.POST("/login", handlers.Login(authService, tokens))
	server.GET("/logout", handlers.Logout(), handlers.Require(authGate, gate.Authenticated))
	server.GET("/google-login", handlers.GoogleLogin(google))
	server.GET("/google-callback", handlers.GoogleCallback(google, authService, tokens))

	userOnly := handlers.Require(authGate, gate.NotPrivileged)
	server.GET("/upload", handlers.UploadPage(), userOnly)
	server.POST("/upload", handlers.Upload(uploadService), userOnly)
	server.GET("/gallery", handlers.Gallery(uploadService), userOnly)
	server.GET("/detail/:uploadID", handlers.UploadDetail(uploadService), userOnly)

	verified := handlers.Require(authGate, gate.Verified)
	server.GET("/file/:ref", handlers.ServeBlob(uploadService), verified)
	server.POST("/chat/send", handlers.SendMessage(chatService), verified)
	server.GET("/chat/list/:userID", handlers.ListMessages(chatService), verified)

	adminOnly := handlers.Require(authGate, gate.Privileged)
	server.GET("/admin/dashboard", handlers.AdminDashboard(adminService), adminOnly)
	server.GET("/admin/users", handlers.AdminUsers(adminService), adminOnly)
	server.GET("/admin/user/:userID", handlers.AdminUserDetail(adminService), adminOnly)
	server.GET("/admin/chats", handlers.AdminChats(adminService), adminOnly)

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(config.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(config.ListenAddress); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
