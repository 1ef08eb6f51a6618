package handler

import (
	"time"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/mapview"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Shared ---

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Session ---

type chooseRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type sessionResponse struct {
	Role      *domain.Role     `json:"role"`
	Dashboard domain.Dashboard `json:"dashboard"`
}

// --- Deliveries ---

// parsedLandmarkRequest uses the same field names as the parse response so a
// client can send back what /v1/assistant/parse returned.
type parsedLandmarkRequest struct {
	MainLandmark      string   `json:"mainLandmark"      validate:"required"`
	SpatialRelation   string   `json:"spatialRelation"`
	VisualMarkers     []string `json:"visualMarkers"`
	SuggestedCategory string   `json:"suggestedCategory" validate:"omitempty,oneof=spaza transport house other"`
	Confidence        float64  `json:"confidence"        validate:"gte=0,lte=1"`
}

// createDeliveryRequest carries either free text for the assistant to parse
// or an already structured landmark.
type createDeliveryRequest struct {
	Description string                 `json:"description" validate:"required_without=Landmark"`
	Landmark    *parsedLandmarkRequest `json:"landmark"    validate:"omitempty"`
}

type advanceDeliveryRequest struct {
	Status        string `json:"status"         validate:"required,oneof=accepted in-transit delivered"`
	CourierID     string `json:"courier_id"     validate:"required_if=Status accepted"`
	EvidenceImage string `json:"evidence_image"`
}

type selectLandmarkRequest struct {
	LandmarkID string        `json:"landmark_id" validate:"required_without=Point"`
	Point      *pointRequest `json:"point"`
}

type deliveryListResponse struct {
	Deliveries []domain.Delivery `json:"deliveries"`
	Selected   *domain.Landmark  `json:"selected_landmark,omitempty"`
}

// --- Landmarks ---

type landmarkListResponse struct {
	Landmarks []domain.Landmark `json:"landmarks"`
}

type incidentListResponse struct {
	Incidents []domain.Incident `json:"incidents"`
}

// --- Assistant ---

type parseRequest struct {
	Text string `json:"text" validate:"required"`
}

type parseResponse struct {
	Parsed      *domain.ParsedLandmark `json:"parsed"`
	Description string                 `json:"description"`
}

type routeRequest struct {
	DeliveryID string `json:"delivery_id" validate:"required_without_all=From To"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type safetyRequest struct {
	// Incidents, when present, replaces the currently active incidents.
	Incidents *[]domain.Incident `json:"incidents"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type textResponse struct {
	Text string `json:"text"`
}

// --- Map ---

type viewportRequest struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"  validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type mapClickRequest struct {
	ViewBox  string          `json:"view_box"`
	Viewport viewportRequest `json:"viewport"`
	Screen   pointRequest    `json:"screen"`
}

type mapClickResponse struct {
	MapPoint domain.Point    `json:"map_point"`
	Landmark domain.Landmark `json:"landmark"`
}

type sceneResponse struct {
	ViewBox string           `json:"view_box"`
	Pins    []mapview.Pin    `json:"pins"`
	Route   *mapview.Segment `json:"route,omitempty"`
}

// --- Drivers / payments ---

type driverListResponse struct {
	Drivers     []domain.Driver `json:"drivers"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type zoneListResponse struct {
	Zones []domain.Zone `json:"zones"`
}

type paymentLink struct {
	Gateway domain.PaymentGateway `json:"gateway"`
	Label   string                `json:"label"`
	URL     string                `json:"url"`
}

type paymentListResponse struct {
	Gateways []paymentLink `json:"gateways"`
}
