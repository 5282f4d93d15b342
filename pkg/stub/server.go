// Package stub is an in-memory stand-in for the card backend. It implements
// the REST contract the client consumes so the terminal UI can be developed
// and tested without the real OCR service.
package stub

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/api"
)

var managePage = template.Must(template.New("manage").Parse(`<!DOCTYPE html>
<html>
<body>
<div id="unsortedContainer">
{{range .Cards}}  <div class="card-item" data-card-id="{{.ID}}" data-card-data="{{.JSON}}"></div>
{{end}}</div>
</body>
</html>
`))

type manageCard struct {
	ID   int64
	JSON string
}

// Server holds the in-memory backend state. Handlers are not safe for
// concurrent mutation; the stub serializes through the default mux like the
// real backend serializes through its database.
type Server struct {
	cards       map[int64]*api.Card
	labels      map[int64]*api.Label
	extractions []api.Extraction
	nextID      int64
}

// NewServer creates an empty stub backend.
func NewServer() *Server {
	return &Server{
		cards:  map[int64]*api.Card{},
		labels: map[int64]*api.Label{},
		nextID: 1,
	}
}

// SeedCard adds a card and returns its id.
func (s *Server) SeedCard(card api.Card) int64 {
	card.ID = s.nextID
	s.nextID++
	s.cards[card.ID] = &card

	return card.ID
}

// SeedLabel adds a label and returns its id.
func (s *Server) SeedLabel(label api.Label) int64 {
	label.ID = s.nextID
	s.nextID++
	s.labels[label.ID] = &label

	return label.ID
}

// Card returns the stored card, for test assertions.
func (s *Server) Card(id int64) *api.Card {
	return s.cards[id]
}

// Labels returns the stored labels, for test assertions.
func (s *Server) Labels() []*api.Label {
	labels := make([]*api.Label, 0, len(s.labels))
	for _, l := range s.labels {
		labels = append(labels, l)
	}

	return labels
}

// Handler builds the full router, wrapped in the CORS policy the real
// backend applies for its browser clients.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/manage", s.handleManage).Methods("GET")
	r.HandleFunc("/upload", s.handleUpload).Methods("POST")
	r.HandleFunc("/download_excel", s.handleDownload).Methods("GET")

	r.HandleFunc("/api/labels", s.handleCreateLabel).Methods("POST")
	r.HandleFunc("/api/labels/{id:[0-9]+}", s.handleUpdateLabel).Methods("PUT")
	r.HandleFunc("/api/labels/{id:[0-9]+}", s.handleDeleteLabel).Methods("DELETE")

	r.HandleFunc("/api/cards/{id:[0-9]+}/label", s.handleAssignLabel).Methods("POST")
	r.HandleFunc("/api/cards/{id:[0-9]+}/label", s.handleRemoveLabel).Methods("DELETE")
	r.HandleFunc("/api/cards/{id:[0-9]+}/preview", s.handlePreview).Methods("GET")
	r.HandleFunc("/api/cards/{id:[0-9]+}/edit", s.handleEditCard).Methods("PUT")
	r.HandleFunc("/api/cards/{id:[0-9]+}", s.handleUpdateCard).Methods("PUT")
	r.HandleFunc("/api/cards/{id:[0-9]+}", s.handleDeleteCard).Methods("DELETE")

	r.HandleFunc("/api/countries", s.handleCountries).Methods("GET")
	r.HandleFunc("/api/recent", s.handleRecent).Methods("GET")
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods("POST")

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("error encoding stub response")
	}
}

func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]interface{}{"success": false, "message": message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]interface{}{"success": true, "message": message})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	return id
}

func (s *Server) handleManage(w http.ResponseWriter, r *http.Request) {
	cards := make([]manageCard, 0, len(s.cards))

	for id := int64(0); id < s.nextID; id++ {
		card, ok := s.cards[id]
		if !ok {
			continue
		}

		data, err := json.Marshal(card)
		if err != nil {
			continue
		}

		cards = append(cards, manageCard{ID: card.ID, JSON: string(data)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := managePage.Execute(w, map[string]interface{}{"Cards": cards}); err != nil {
		log.Error().Err(err).Msg("error rendering manage page")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart body", http.StatusBadRequest)

		return
	}

	files := r.MultipartForm.File["files"]

	for _, header := range files {
		s.SeedCard(api.Card{Name: "Extracted " + header.Filename, Filename: header.Filename})
		s.extractions = append(s.extractions, api.Extraction{
			Name:     "Extracted " + header.Filename,
			Filename: header.Filename,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<div class="messages-container"><div class="alert alert-success">Processed %d file(s) successfully</div></div>`,
		len(files))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="extracted_data.xlsx"`)
	fmt.Fprintf(w, "stub excel export: %d cards", len(s.cards))
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var payload api.Label

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		writeFailure(w, "Label name is required")

		return
	}

	s.SeedLabel(payload)
	writeSuccess(w, "Label created successfully")
}

func (s *Server) handleUpdateLabel(w http.ResponseWriter, r *http.Request) {
	label, ok := s.labels[pathID(r)]
	if !ok {
		writeFailure(w, "Label not found")

		return
	}

	var payload api.Label

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		writeFailure(w, "Label name is required")

		return
	}

	label.Name = payload.Name
	label.Color = payload.Color

	for _, card := range s.cards {
		if card.LabelID != nil && *card.LabelID == label.ID {
			name := label.Name
			card.LabelName = &name
		}
	}

	writeSuccess(w, "Label updated successfully")
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if _, ok := s.labels[id]; !ok {
		writeFailure(w, "Label not found")

		return
	}

	delete(s.labels, id)

	// cascade: cards revert to unsorted
	for _, card := range s.cards {
		if card.LabelID != nil && *card.LabelID == id {
			card.LabelID = nil
			card.LabelName = nil
		}
	}

	writeSuccess(w, "Label deleted successfully")
}

func (s *Server) handleAssignLabel(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cards[pathID(r)]
	if !ok {
		writeFailure(w, "Card not found")

		return
	}

	var payload struct {
		LabelID   int64  `json:"label_id"`
		LabelName string `json:"label_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, "Invalid request body")

		return
	}

	if _, ok := s.labels[payload.LabelID]; !ok {
		writeFailure(w, "Label not found")

		return
	}

	card.LabelID = &payload.LabelID
	card.LabelName = &payload.LabelName

	writeSuccess(w, "Label assigned successfully")
}

func (s *Server) handleRemoveLabel(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cards[pathID(r)]
	if !ok {
		writeFailure(w, "Card not found")

		return
	}

	card.LabelID = nil
	card.LabelName = nil

	writeSuccess(w, "Label removed successfully")
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cards[pathID(r)]
	if !ok {
		writeFailure(w, "Card not found")

		return
	}

	writeJSON(w, map[string]interface{}{"success": true, "card": card})
}

// companyCountries stands in for the backend's OCR-based country detection.
var companyCountries = map[string]string{
	"wipro":   "IN",
	"infosys": "IN",
	"siemens": "DE",
	"sakura":  "JP",
	"acme":    "US",
}

func detectCountry(company string) string {
	lower := strings.ToLower(company)

	for token, code := range companyCountries {
		if strings.Contains(lower, token) {
			return code
		}
	}

	return "UNKNOWN"
}

func applyFields(card *api.Card, fields api.CardFields) {
	card.Name = fields.Name
	card.Designation = fields.Designation
	card.Company = fields.Company
	card.Email = fields.Email
	card.Phone = fields.Phone
	card.Website = fields.Website

	if fields.Country != "" {
		card.Country = fields.Country
	}

	if fields.Flag != "" {
		card.Flag = fields.Flag
	}
}

// handleUpdateCard is the board edit endpoint. Like the real backend it
// re-detects the country from the company when the company changed and the
// request carries no country.
func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cards[pathID(r)]
	if !ok {
		writeFailure(w, "Card not found")

		return
	}

	var fields api.CardFields

	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeFailure(w, "Invalid request body")

		return
	}

	companyChanged := fields.Company != "" && fields.Company != card.Company

	applyFields(card, fields)

	if fields.Country == "" && companyChanged {
		card.Country = detectCountry(fields.Company)
		card.Flag = ""
	}

	writeSuccess(w, "Card updated successfully")
}

// handleEditCard is the preview edit endpoint; it takes the field set
// verbatim with no country detection.
func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cards[pathID(r)]
	if !ok {
		writeFailure(w, "Card not found")

		return
	}

	var fields api.CardFields

	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeFailure(w, "Invalid request body")

		return
	}

	applyFields(card, fields)

	writeSuccess(w, "Card updated successfully")
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if _, ok := s.cards[id]; !ok {
		writeFailure(w, "Card not found")

		return
	}

	delete(s.cards, id)
	writeSuccess(w, "Card deleted successfully")
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries := []api.Country{
		{Code: "US", Flag: "🇺🇸"},
		{Code: "IN", Flag: "🇮🇳"},
		{Code: "GB", Flag: "🇬🇧"},
		{Code: "DE", Flag: "🇩🇪"},
		{Code: "FR", Flag: "🇫🇷"},
		{Code: "CA", Flag: "🇨🇦"},
		{Code: "AU", Flag: "🇦🇺"},
		{Code: "UNKNOWN", Flag: "🌍"},
	}

	writeJSON(w, map[string]interface{}{"success": true, "countries": countries})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"success": true, "data": s.extractions})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Usage    string `json:"usage"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, "Invalid request body")

		return
	}

	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		writeFailure(w, "Username, email, and password are required")

		return
	}

	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		writeFailure(w, "Failed to generate API key")

		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"api_key": "bck_" + hex.EncodeToString(key),
	})
}
