package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eduevent/internal/delivery/http/controllers"
	"eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
)

// Controllers groups every controller the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Certificate  *controllers.CertificateController
	Document     *controllers.DocumentController
	Volunteer    *controllers.VolunteerController
	Finance      *controllers.FinanceController
	Hostel       *controllers.HostelController
	Canteen      *controllers.CanteenController
}

// Middleware is a per-route handler wrapper.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// NewRouter initializes the HTTP router with all application routes.
// rateLimit wraps the registration endpoint and may be nil.
func NewRouter(c Controllers, verifier domain.TokenVerifier, rateLimit Middleware, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	authed := func(hf http.HandlerFunc, mws ...Middleware) http.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				hf = mws[i](hf)
			}
		}
		return middleware.RequireAuth(verifier, logger)(hf)
	}
	role := func(roles ...string) Middleware { return middleware.RequireRole(roles...) }

	eventAdmins := role(domain.RoleEventManager)
	financeAdmins := role(domain.RoleFinanceAdmin)
	checkInStaff := role(domain.RoleEventManager, domain.RoleVolunteer)
	superAdmins := role(domain.RoleSuperAdmin)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", authed(c.Event.CreateEvent, eventAdmins))
	mux.HandleFunc("PATCH /events/{eventID}/financials", authed(c.Event.UpdateFinancials, financeAdmins))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", authed(c.Registration.Register, rateLimit))
	mux.HandleFunc("GET /events/{eventID}/registrations", authed(c.Registration.ListForEvent, eventAdmins))
	mux.HandleFunc("GET /me/registrations", authed(c.Registration.ListMine))
	mux.HandleFunc("POST /registrations/check-in", authed(c.Registration.CheckIn, checkInStaff))
	mux.HandleFunc("GET /events/{eventID}/certificate", authed(c.Certificate.GetCertificate))
	mux.HandleFunc("POST /documents", authed(c.Document.Upload))

	// Volunteers
	mux.HandleFunc("GET /volunteers", authed(c.Volunteer.ListVolunteers, eventAdmins))
	mux.HandleFunc("POST /volunteers", authed(c.Volunteer.CreateVolunteer, eventAdmins))
	mux.HandleFunc("GET /volunteers/{volunteerID}", authed(c.Volunteer.GetVolunteer, eventAdmins))
	mux.HandleFunc("PUT /volunteers/{volunteerID}/events/{eventID}", authed(c.Volunteer.SetAssignment, eventAdmins))
	mux.HandleFunc("PUT /volunteers/{volunteerID}/events/{eventID}/attendance", authed(c.Volunteer.TrackAttendance, eventAdmins))
	mux.HandleFunc("PUT /volunteers/{volunteerID}/events/{eventID}/task", authed(c.Volunteer.AssignTask, eventAdmins))

	// Finance
	mux.HandleFunc("GET /finance/report", authed(c.Finance.Report, financeAdmins))

	// Hostel
	mux.HandleFunc("GET /hostel/rooms", authed(c.Hostel.ListRooms))
	mux.HandleFunc("POST /hostel/requests", authed(c.Hostel.SubmitRequest))
	mux.HandleFunc("GET /hostel/requests", authed(c.Hostel.ListRequests))
	mux.HandleFunc("PATCH /hostel/requests/{requestID}", authed(c.Hostel.UpdateRequestStatus, superAdmins))
	mux.HandleFunc("POST /hostel/complaints", authed(c.Hostel.SubmitComplaint))
	mux.HandleFunc("GET /hostel/complaints", authed(c.Hostel.ListComplaints))
	mux.HandleFunc("PATCH /hostel/complaints/{complaintID}", authed(c.Hostel.UpdateComplaintStatus, superAdmins))

	// Canteen
	mux.HandleFunc("GET /canteen/items", authed(c.Canteen.ListItems))
	mux.HandleFunc("POST /canteen/items", authed(c.Canteen.AddItem, superAdmins))
	mux.HandleFunc("GET /canteen/menus/{date}", authed(c.Canteen.GetMenu))
	mux.HandleFunc("PUT /canteen/menus/{date}", authed(c.Canteen.SetMenu, superAdmins))
	mux.HandleFunc("POST /canteen/tokens", authed(c.Canteen.GenerateToken))
	mux.HandleFunc("POST /canteen/tokens/validate", authed(c.Canteen.ValidateToken, checkInStaff))
	mux.HandleFunc("GET /me/canteen/tokens", authed(c.Canteen.ListMyTokens))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with CORS and access logging.
func NewHandler(mux *http.ServeMux, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
