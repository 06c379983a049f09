package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/store/memory"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
// A nil DBPool selects the in-memory store.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	PasswordCost int
	Clock        clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
	RequestService itemrequest.Service
}

type repositories struct {
	users    user.Repository
	items    item.Repository
	bookings booking.Repository
	comments comment.Repository
	requests itemrequest.Repository
}

func newRepositories(cfg Config) repositories {
	if cfg.DBPool == nil {
		store := memory.NewStore(cfg.Clock)
		return repositories{
			users:    store.Users(),
			items:    store.Items(),
			bookings: store.Bookings(),
			comments: store.Comments(),
			requests: store.Requests(),
		}
	}
	return repositories{
		users:    user.NewPgxRepository(cfg.DBPool),
		items:    item.NewPgxRepository(cfg.DBPool),
		bookings: booking.NewPgxRepository(cfg.DBPool),
		comments: comment.NewPgxRepository(cfg.DBPool),
		requests: itemrequest.NewPgxRepository(cfg.DBPool),
	}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.PasswordCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	repos := newRepositories(cfg)

	// User Module
	userService := user.NewService(repos.users, passwordHasher)

	// Item Module
	itemService := item.NewService(repos.items, userService, repos.requests)

	// Item Request Module
	requestService := itemrequest.NewService(repos.requests, userService, itemService, cfg.Clock)

	// Booking Module
	bookingService := booking.NewService(repos.bookings, itemService, userService, cfg.Clock)

	// Comment Module
	commentService := comment.NewService(repos.comments, userService, itemService, bookingService, cfg.Clock)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
		RequestService: requestService,
		JWTManager:     jwtManager,
		Clock:          cfg.Clock,
	})

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
		RequestService: requestService,
	}
}
