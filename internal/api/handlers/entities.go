package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/designlab-hq/designlab/internal/api/dto"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
)

// EntityHandler handles the per-phase sub-entity CRUD routes, all nested
// under /projects/{id}. Every request first resolves the project through
// the project service, which enforces ownership.
type EntityHandler struct {
	projects  project.Service
	entities  project.EntityRepository
	logger    *logger.Logger
	validator *validator.Validator
}

// NewEntityHandler creates a new sub-entity handler
func NewEntityHandler(projects project.Service, entities project.EntityRepository, log *logger.Logger, val *validator.Validator) *EntityHandler {
	return &EntityHandler{
		projects:  projects,
		entities:  entities,
		logger:    log,
		validator: val,
	}
}

// ownedProject resolves the {id} path param and verifies the caller may
// access that project. Writes the error response itself on failure.
func (h *EntityHandler) ownedProject(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)

	projectID, ok := pathID(w, r, "id")
	if !ok {
		return 0, false
	}

	if _, err := h.projects.Get(r.Context(), projectID, userID, role); err != nil {
		writeServiceError(w, err, "Failed to get project")
		return 0, false
	}
	return projectID, true
}

// decodeValid decodes the body into req and validates it. Writes the error
// response itself on failure.
func (h *EntityHandler) decodeValid(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return false
	}
	return true
}

func writeDeleted(w http.ResponseWriter, deleted bool, resource string, err error) {
	if err != nil {
		writeServiceError(w, err, "Failed to delete "+resource)
		return
	}
	if !deleted {
		utils.WriteError(w, errors.NotFound(resource))
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, resource+" deleted", nil)
}

// --- Empathy maps ---

// CreateEmpathyMap creates an empathy map
// @Summary Create empathy map
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.EmpathyMapRequest true "Empathy map data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/empathy-maps [post]
func (h *EntityHandler) CreateEmpathyMap(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.EmpathyMapRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	m := &project.EmpathyMap{
		ProjectID: projectID,
		Says:      req.Says,
		Thinks:    req.Thinks,
		Does:      req.Does,
		Feels:     req.Feels,
	}
	if err := h.entities.CreateEmpathyMap(r.Context(), m); err != nil {
		writeServiceError(w, err, "Failed to create empathy map")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, m)
}

// ListEmpathyMaps lists a project's empathy maps
// @Summary List empathy maps
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/empathy-maps [get]
func (h *EntityHandler) ListEmpathyMaps(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	maps, err := h.entities.ListEmpathyMaps(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list empathy maps")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, maps)
}

// UpdateEmpathyMap updates an empathy map
// @Summary Update empathy map
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Empathy map ID"
// @Param request body dto.EmpathyMapRequest true "Empathy map data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/empathy-maps/{entityID} [put]
func (h *EntityHandler) UpdateEmpathyMap(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.EmpathyMapRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	m := &project.EmpathyMap{
		ID:        id,
		ProjectID: projectID,
		Says:      req.Says,
		Thinks:    req.Thinks,
		Does:      req.Does,
		Feels:     req.Feels,
	}
	if err := h.entities.UpdateEmpathyMap(r.Context(), m); err != nil {
		writeServiceError(w, err, "Failed to update empathy map")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, m)
}

// DeleteEmpathyMap deletes an empathy map
// @Summary Delete empathy map
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Empathy map ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/empathy-maps/{entityID} [delete]
func (h *EntityHandler) DeleteEmpathyMap(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteEmpathyMap(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Empathy map", err)
}

// --- Personas ---

// CreatePersona creates a persona. Plan ceilings are enforced by the
// subscription middleware on the route.
// @Summary Create persona
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.PersonaRequest true "Persona data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Plan limit reached"
// @Security BearerAuth
// @Router /projects/{id}/personas [post]
func (h *EntityHandler) CreatePersona(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.PersonaRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	p := &project.Persona{
		ProjectID:    projectID,
		Name:         req.Name,
		Age:          req.Age,
		Occupation:   req.Occupation,
		Bio:          req.Bio,
		Goals:        req.Goals,
		Frustrations: req.Frustrations,
	}
	if err := h.entities.CreatePersona(r.Context(), p); err != nil {
		writeServiceError(w, err, "Failed to create persona")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, p)
}

// ListPersonas lists a project's personas
// @Summary List personas
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/personas [get]
func (h *EntityHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	personas, err := h.entities.ListPersonas(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list personas")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, personas)
}

// UpdatePersona updates a persona
// @Summary Update persona
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Persona ID"
// @Param request body dto.PersonaRequest true "Persona data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/personas/{entityID} [put]
func (h *EntityHandler) UpdatePersona(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.PersonaRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	p := &project.Persona{
		ID:           id,
		ProjectID:    projectID,
		Name:         req.Name,
		Age:          req.Age,
		Occupation:   req.Occupation,
		Bio:          req.Bio,
		Goals:        req.Goals,
		Frustrations: req.Frustrations,
	}
	if err := h.entities.UpdatePersona(r.Context(), p); err != nil {
		writeServiceError(w, err, "Failed to update persona")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// DeletePersona deletes a persona
// @Summary Delete persona
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Persona ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/personas/{entityID} [delete]
func (h *EntityHandler) DeletePersona(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeletePersona(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Persona", err)
}

// --- Interviews ---

// CreateInterview creates an interview
// @Summary Create interview
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.InterviewRequest true "Interview data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/interviews [post]
func (h *EntityHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.InterviewRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	i := &project.Interview{
		ProjectID:   projectID,
		Interviewee: req.Interviewee,
		Date:        date,
		Notes:       req.Notes,
		Insights:    req.Insights,
	}
	if err := h.entities.CreateInterview(r.Context(), i); err != nil {
		writeServiceError(w, err, "Failed to create interview")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, i)
}

// ListInterviews lists a project's interviews
// @Summary List interviews
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/interviews [get]
func (h *EntityHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	interviews, err := h.entities.ListInterviews(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list interviews")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, interviews)
}

// UpdateInterview updates an interview
// @Summary Update interview
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Interview ID"
// @Param request body dto.InterviewRequest true "Interview data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/interviews/{entityID} [put]
func (h *EntityHandler) UpdateInterview(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.InterviewRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	i := &project.Interview{
		ID:          id,
		ProjectID:   projectID,
		Interviewee: req.Interviewee,
		Date:        date,
		Notes:       req.Notes,
		Insights:    req.Insights,
	}
	if err := h.entities.UpdateInterview(r.Context(), i); err != nil {
		writeServiceError(w, err, "Failed to update interview")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, i)
}

// DeleteInterview deletes an interview
// @Summary Delete interview
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Interview ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/interviews/{entityID} [delete]
func (h *EntityHandler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteInterview(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Interview", err)
}

// parseDate parses an optional YYYY-MM-DD date string. Writes the error
// response itself on failure.
func parseDate(w http.ResponseWriter, s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid date, expected YYYY-MM-DD"))
		return nil, false
	}
	return &t, true
}

// --- Observations ---

// CreateObservation creates an observation
// @Summary Create observation
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.ObservationRequest true "Observation data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/observations [post]
func (h *EntityHandler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.ObservationRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	o := &project.Observation{
		ProjectID: projectID,
		Location:  req.Location,
		Context:   req.Context,
		Notes:     req.Notes,
	}
	if err := h.entities.CreateObservation(r.Context(), o); err != nil {
		writeServiceError(w, err, "Failed to create observation")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, o)
}

// ListObservations lists a project's observations
// @Summary List observations
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/observations [get]
func (h *EntityHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	observations, err := h.entities.ListObservations(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list observations")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, observations)
}

// UpdateObservation updates an observation
// @Summary Update observation
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Observation ID"
// @Param request body dto.ObservationRequest true "Observation data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/observations/{entityID} [put]
func (h *EntityHandler) UpdateObservation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.ObservationRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	o := &project.Observation{
		ID:        id,
		ProjectID: projectID,
		Location:  req.Location,
		Context:   req.Context,
		Notes:     req.Notes,
	}
	if err := h.entities.UpdateObservation(r.Context(), o); err != nil {
		writeServiceError(w, err, "Failed to update observation")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, o)
}

// DeleteObservation deletes an observation
// @Summary Delete observation
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Observation ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/observations/{entityID} [delete]
func (h *EntityHandler) DeleteObservation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteObservation(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Observation", err)
}

// --- POV statements ---

// CreatePovStatement creates a POV statement. The full statement is
// composed from its parts when the client does not send one.
// @Summary Create POV statement
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.PovStatementRequest true "POV statement data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/pov-statements [post]
func (h *EntityHandler) CreatePovStatement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.PovStatementRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	s := &project.PovStatement{
		ProjectID:     projectID,
		User:          req.User,
		Need:          req.Need,
		Insight:       req.Insight,
		FullStatement: povFullStatement(req),
	}
	if err := h.entities.CreatePovStatement(r.Context(), s); err != nil {
		writeServiceError(w, err, "Failed to create POV statement")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, s)
}

// ListPovStatements lists a project's POV statements
// @Summary List POV statements
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/pov-statements [get]
func (h *EntityHandler) ListPovStatements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	statements, err := h.entities.ListPovStatements(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list POV statements")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, statements)
}

// UpdatePovStatement updates a POV statement
// @Summary Update POV statement
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "POV statement ID"
// @Param request body dto.PovStatementRequest true "POV statement data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/pov-statements/{entityID} [put]
func (h *EntityHandler) UpdatePovStatement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.PovStatementRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	s := &project.PovStatement{
		ID:            id,
		ProjectID:     projectID,
		User:          req.User,
		Need:          req.Need,
		Insight:       req.Insight,
		FullStatement: povFullStatement(req),
	}
	if err := h.entities.UpdatePovStatement(r.Context(), s); err != nil {
		writeServiceError(w, err, "Failed to update POV statement")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, s)
}

// DeletePovStatement deletes a POV statement
// @Summary Delete POV statement
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "POV statement ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/pov-statements/{entityID} [delete]
func (h *EntityHandler) DeletePovStatement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeletePovStatement(r.Context(), id, projectID)
	writeDeleted(w, deleted, "POV statement", err)
}

func povFullStatement(req dto.PovStatementRequest) string {
	if req.FullStatement != "" {
		return req.FullStatement
	}
	return req.User + " needs " + req.Need + " because " + req.Insight
}

// --- HMW questions ---

// CreateHmwQuestion creates a "how might we" question
// @Summary Create HMW question
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.HmwQuestionRequest true "HMW question data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/hmw-questions [post]
func (h *EntityHandler) CreateHmwQuestion(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.HmwQuestionRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	q := &project.HmwQuestion{
		ProjectID: projectID,
		Question:  req.Question,
		Scope:     req.Scope,
		Priority:  req.Priority,
	}
	if err := h.entities.CreateHmwQuestion(r.Context(), q); err != nil {
		writeServiceError(w, err, "Failed to create HMW question")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, q)
}

// ListHmwQuestions lists a project's HMW questions
// @Summary List HMW questions
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/hmw-questions [get]
func (h *EntityHandler) ListHmwQuestions(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	questions, err := h.entities.ListHmwQuestions(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list HMW questions")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, questions)
}

// UpdateHmwQuestion updates an HMW question
// @Summary Update HMW question
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "HMW question ID"
// @Param request body dto.HmwQuestionRequest true "HMW question data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/hmw-questions/{entityID} [put]
func (h *EntityHandler) UpdateHmwQuestion(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.HmwQuestionRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	q := &project.HmwQuestion{
		ID:        id,
		ProjectID: projectID,
		Question:  req.Question,
		Scope:     req.Scope,
		Priority:  req.Priority,
	}
	if err := h.entities.UpdateHmwQuestion(r.Context(), q); err != nil {
		writeServiceError(w, err, "Failed to update HMW question")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, q)
}

// DeleteHmwQuestion deletes an HMW question
// @Summary Delete HMW question
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "HMW question ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/hmw-questions/{entityID} [delete]
func (h *EntityHandler) DeleteHmwQuestion(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteHmwQuestion(r.Context(), id, projectID)
	writeDeleted(w, deleted, "HMW question", err)
}

// --- Ideas ---

// CreateIdea creates an idea
// @Summary Create idea
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.IdeaRequest true "Idea data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/ideas [post]
func (h *EntityHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.IdeaRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	i := &project.Idea{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Votes != nil {
		i.Votes = *req.Votes
	}
	if err := h.entities.CreateIdea(r.Context(), i); err != nil {
		writeServiceError(w, err, "Failed to create idea")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, i)
}

// ListIdeas lists a project's ideas, most voted first
// @Summary List ideas
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/ideas [get]
func (h *EntityHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	ideas, err := h.entities.ListIdeas(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list ideas")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, ideas)
}

// UpdateIdea updates an idea
// @Summary Update idea
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Idea ID"
// @Param request body dto.IdeaRequest true "Idea data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/ideas/{entityID} [put]
func (h *EntityHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.IdeaRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	i := &project.Idea{
		ID:          id,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Votes != nil {
		i.Votes = *req.Votes
	}
	if err := h.entities.UpdateIdea(r.Context(), i); err != nil {
		writeServiceError(w, err, "Failed to update idea")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, i)
}

// DeleteIdea deletes an idea
// @Summary Delete idea
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Idea ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/ideas/{entityID} [delete]
func (h *EntityHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteIdea(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Idea", err)
}

// --- Prototypes ---

// CreatePrototype creates a prototype
// @Summary Create prototype
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.PrototypeRequest true "Prototype data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/prototypes [post]
func (h *EntityHandler) CreatePrototype(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.PrototypeRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	p := &project.Prototype{
		ProjectID:    projectID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		MaterialsURL: req.MaterialsURL,
	}
	if err := h.entities.CreatePrototype(r.Context(), p); err != nil {
		writeServiceError(w, err, "Failed to create prototype")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, p)
}

// ListPrototypes lists a project's prototypes
// @Summary List prototypes
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/prototypes [get]
func (h *EntityHandler) ListPrototypes(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	prototypes, err := h.entities.ListPrototypes(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list prototypes")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, prototypes)
}

// UpdatePrototype updates a prototype
// @Summary Update prototype
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Prototype ID"
// @Param request body dto.PrototypeRequest true "Prototype data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/prototypes/{entityID} [put]
func (h *EntityHandler) UpdatePrototype(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.PrototypeRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	p := &project.Prototype{
		ID:           id,
		ProjectID:    projectID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		MaterialsURL: req.MaterialsURL,
	}
	if err := h.entities.UpdatePrototype(r.Context(), p); err != nil {
		writeServiceError(w, err, "Failed to update prototype")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// DeletePrototype deletes a prototype
// @Summary Delete prototype
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Prototype ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/prototypes/{entityID} [delete]
func (h *EntityHandler) DeletePrototype(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeletePrototype(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Prototype", err)
}

// --- Test plans ---

// CreateTestPlan creates a test plan
// @Summary Create test plan
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.TestPlanRequest true "Test plan data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-plans [post]
func (h *EntityHandler) CreateTestPlan(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.TestPlanRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	t := &project.TestPlan{
		ProjectID:       projectID,
		Objective:       req.Objective,
		Methodology:     req.Methodology,
		Participants:    req.Participants,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.entities.CreateTestPlan(r.Context(), t); err != nil {
		writeServiceError(w, err, "Failed to create test plan")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, t)
}

// ListTestPlans lists a project's test plans
// @Summary List test plans
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-plans [get]
func (h *EntityHandler) ListTestPlans(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	plans, err := h.entities.ListTestPlans(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list test plans")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, plans)
}

// UpdateTestPlan updates a test plan
// @Summary Update test plan
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Test plan ID"
// @Param request body dto.TestPlanRequest true "Test plan data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-plans/{entityID} [put]
func (h *EntityHandler) UpdateTestPlan(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.TestPlanRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	t := &project.TestPlan{
		ID:              id,
		ProjectID:       projectID,
		Objective:       req.Objective,
		Methodology:     req.Methodology,
		Participants:    req.Participants,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.entities.UpdateTestPlan(r.Context(), t); err != nil {
		writeServiceError(w, err, "Failed to update test plan")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, t)
}

// DeleteTestPlan deletes a test plan
// @Summary Delete test plan
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Test plan ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-plans/{entityID} [delete]
func (h *EntityHandler) DeleteTestPlan(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteTestPlan(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Test plan", err)
}

// --- Test results ---

// CreateTestResult records a test result for a plan
// @Summary Create test result
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.TestResultRequest true "Test result data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-results [post]
func (h *EntityHandler) CreateTestResult(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.TestResultRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	res := &project.TestResult{
		TestPlanID:  req.TestPlanID,
		ProjectID:   projectID,
		Participant: req.Participant,
		Feedback:    req.Feedback,
		Success:     req.Success,
	}
	if err := h.entities.CreateTestResult(r.Context(), res); err != nil {
		writeServiceError(w, err, "Failed to create test result")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, res)
}

// ListTestResults lists the results for one test plan
// @Summary List test results
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Test plan ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-plans/{entityID}/results [get]
func (h *EntityHandler) ListTestResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedProject(w, r); !ok {
		return
	}
	testPlanID, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	results, err := h.entities.ListTestResults(r.Context(), testPlanID)
	if err != nil {
		writeServiceError(w, err, "Failed to list test results")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, results)
}

// DeleteTestResult deletes a test result
// @Summary Delete test result
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "Test result ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/test-results/{entityID} [delete]
func (h *EntityHandler) DeleteTestResult(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteTestResult(r.Context(), id, projectID)
	writeDeleted(w, deleted, "Test result", err)
}

// --- DVF assessments ---

// CreateDvfAssessment scores an item on the desirability/feasibility/
// viability scale. The overall score and recommendation are derived
// server-side.
// @Summary Create DVF assessment
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.DvfAssessmentRequest true "DVF assessment data"
// @Success 201 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/dvf-assessments [post]
func (h *EntityHandler) CreateDvfAssessment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	var req dto.DvfAssessmentRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	a := dvfFromRequest(req)
	a.ProjectID = projectID
	if err := h.entities.CreateDvfAssessment(r.Context(), a); err != nil {
		writeServiceError(w, err, "Failed to create DVF assessment")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, a)
}

// ListDvfAssessments lists a project's DVF assessments
// @Summary List DVF assessments
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/dvf-assessments [get]
func (h *EntityHandler) ListDvfAssessments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	assessments, err := h.entities.ListDvfAssessments(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list DVF assessments")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, assessments)
}

// UpdateDvfAssessment rescores a DVF assessment
// @Summary Update DVF assessment
// @Tags Phase Entities
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "DVF assessment ID"
// @Param request body dto.DvfAssessmentRequest true "DVF assessment data"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/dvf-assessments/{entityID} [put]
func (h *EntityHandler) UpdateDvfAssessment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	var req dto.DvfAssessmentRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	a := dvfFromRequest(req)
	a.ID = id
	a.ProjectID = projectID
	if err := h.entities.UpdateDvfAssessment(r.Context(), a); err != nil {
		writeServiceError(w, err, "Failed to update DVF assessment")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, a)
}

// DeleteDvfAssessment deletes a DVF assessment
// @Summary Delete DVF assessment
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Param entityID path int true "DVF assessment ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/dvf-assessments/{entityID} [delete]
func (h *EntityHandler) DeleteDvfAssessment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}
	deleted, err := h.entities.DeleteDvfAssessment(r.Context(), id, projectID)
	writeDeleted(w, deleted, "DVF assessment", err)
}

// dvfFromRequest builds an assessment with the derived overall score and
// recommendation. Same thresholds as the conversion bridge: proceed at 4
// and above, stop below 2.5.
func dvfFromRequest(req dto.DvfAssessmentRequest) *project.DvfAssessment {
	overall := math.Round((req.Desirability+req.Feasibility+req.Viability)/3*10) / 10

	rec := project.RecommendModify
	switch {
	case overall >= 4:
		rec = project.RecommendProceed
	case overall < 2.5:
		rec = project.RecommendStop
	}

	return &project.DvfAssessment{
		ItemName:       req.ItemName,
		Desirability:   req.Desirability,
		Feasibility:    req.Feasibility,
		Viability:      req.Viability,
		OverallScore:   overall,
		Recommendation: rec,
		Notes:          req.Notes,
	}
}

// --- AI assets ---

// ListAIAssets lists the generated artifacts attached to a project
// @Summary List AI assets
// @Tags Phase Entities
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /projects/{id}/ai-assets [get]
func (h *EntityHandler) ListAIAssets(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	assets, err := h.entities.ListAIAssets(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Failed to list AI assets")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, assets)
}
