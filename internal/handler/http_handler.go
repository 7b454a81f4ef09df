package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/akinstitute/liveclass/internal/audit"
	"github.com/akinstitute/liveclass/internal/capture"
	"github.com/akinstitute/liveclass/internal/chat"
	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/internal/notice"
	"github.com/akinstitute/liveclass/internal/repository"
	"github.com/akinstitute/liveclass/internal/roster"
	"github.com/akinstitute/liveclass/internal/service"
	"github.com/akinstitute/liveclass/internal/visual"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/response"
	"github.com/akinstitute/liveclass/pkg/token"
)

// Handler handles HTTP requests for the institute service.
type Handler struct {
	classrooms *service.ClassroomManager
	catalog    *service.CatalogService
	admissions *service.AdmissionService
	notices    notice.Store
	verifier   *token.Verifier
	chatTail   int
}

func NewHandler(
	classrooms *service.ClassroomManager,
	catalog *service.CatalogService,
	admissions *service.AdmissionService,
	notices notice.Store,
	verifier *token.Verifier,
	chatTail int,
) *Handler {
	return &Handler{
		classrooms: classrooms,
		catalog:    catalog,
		admissions: admissions,
		notices:    notices,
		verifier:   verifier,
		chatTail:   chatTail,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		courses := api.Group("/courses")
		{
			// Public catalog reads
			courses.GET("", h.ListCourses)
			courses.GET("/:id", h.GetCourse)

			// Admin catalog writes
			courses.POST("", h.verifier.RequireAuth(), h.CreateCourse)
			courses.PUT("/:id", h.verifier.RequireAuth(), h.UpdateCourse)
			courses.DELETE("/:id", h.verifier.RequireAuth(), h.DeleteCourse)
		}

		admissions := api.Group("/admissions")
		{
			admissions.POST("", h.SubmitApplication)
			admissions.GET("/pending", h.verifier.RequireAuth(), h.ListPendingApplications)
			admissions.POST("/:id/approve", h.verifier.RequireAuth(), h.ApproveApplication)
			admissions.POST("/:id/reject", h.verifier.RequireAuth(), h.RejectApplication)
		}

		api.GET("/notice", h.GetNotice)
		api.PUT("/notice", h.verifier.RequireAuth(), h.SetNotice)
		api.DELETE("/notice", h.verifier.RequireAuth(), h.ClearNotice)

		classrooms := api.Group("/classrooms/:courseID", h.verifier.RequireAuth())
		{
			classrooms.GET("", h.ClassroomSnapshot)
			classrooms.DELETE("", h.TeardownClassroom)

			session := classrooms.Group("/session")
			{
				session.POST("/camera", h.StartCamera)
				session.POST("/camera/cycle", h.CycleCamera)
				session.POST("/camera/toggle", h.ToggleCamera)
				session.POST("/torch", h.ToggleTorch)
				session.POST("/screen-share", h.StartScreenShare)
				session.POST("/media", h.PlayMediaFile)
				session.POST("/mute", h.ToggleMute)
				session.DELETE("", h.TerminateSession)
			}

			st := classrooms.Group("/stage")
			{
				st.POST("/spotlight", h.SetSpotlight)
				st.POST("/swap", h.ToggleSwap)
			}

			participants := classrooms.Group("/participants")
			{
				participants.GET("", h.ListParticipants)
				participants.POST("/:id/mute", h.ToggleParticipantMute)
				participants.POST("/:id/camera", h.ToggleParticipantCamera)
				participants.POST("/:id/hand", h.SetHandRaised)
			}

			hudGroup := classrooms.Group("/hud")
			{
				hudGroup.POST("/activity", h.HUDActivity)
				hudGroup.POST("/panel", h.HUDPanel)
			}

			visuals := classrooms.Group("/visuals")
			{
				visuals.GET("", h.GetVisuals)
				visuals.PUT("", h.SetVisuals)
				visuals.DELETE("", h.ResetVisuals)
			}

			classrooms.GET("/chat", h.ChatHistory)
		}
	}
}

func (h *Handler) identity(c *gin.Context) (token.Identity, bool) {
	identity, ok := token.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
	}
	return identity, ok
}

func (h *Handler) classroom(c *gin.Context) *service.Classroom {
	return h.classrooms.Get(c.Param("courseID"))
}

// sessionError maps capture failures onto API responses.
func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotInstructor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, capture.ErrInsecureContext):
		response.Error(c, 400, "INSECURE_CONTEXT", "camera access requires a secure context")
	default:
		var capErr *capture.Error
		if errors.As(err, &capErr) {
			response.Error(c, 502, "CAPTURE_FAILED", capErr.Error())
			return
		}
		response.InternalError(c, err.Error())
	}
}

// --- catalog ---

func (h *Handler) CreateCourse(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req domain.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create course request")
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalog.Create(ctx, identity, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotInstructor) {
			response.Forbidden(c, "course creation requires admin role")
			return
		}
		l.Error().Err(err).Msg("failed to create course")
		response.InternalError(c, "failed to create course")
		return
	}

	response.Created(c, course)
}

func (h *Handler) GetCourse(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	id := c.Param("id")
	course, err := h.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.NotFound(c, "course not found")
			return
		}
		l.Error().Err(err).Str(log.FieldCourseID, id).Msg("failed to get course")
		response.InternalError(c, "failed to get course")
		return
	}

	response.Success(c, course)
}

func (h *Handler) ListCourses(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	courses, err := h.catalog.List(ctx, &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to list courses")
		response.InternalError(c, "failed to list courses")
		return
	}

	response.Success(c, gin.H{"courses": courses, "total": len(courses)})
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req domain.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalog.Update(ctx, identity, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotInstructor):
			response.Forbidden(c, "course update requires admin role")
		case errors.Is(err, repository.ErrCourseNotFound):
			response.NotFound(c, "course not found")
		default:
			l.Error().Err(err).Msg("failed to update course")
			response.InternalError(c, "failed to update course")
		}
		return
	}

	response.Success(c, course)
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(ctx, identity, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrNotInstructor):
			response.Forbidden(c, "course deletion requires admin role")
		case errors.Is(err, repository.ErrCourseNotFound):
			response.NotFound(c, "course not found")
		default:
			l.Error().Err(err).Msg("failed to delete course")
			response.InternalError(c, "failed to delete course")
		}
		return
	}

	response.NoContent(c)
}

// --- admissions ---

func (h *Handler) SubmitApplication(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind application request")
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.admissions.Submit(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.NotFound(c, "course not found")
			return
		}
		l.Error().Err(err).Msg("failed to submit application")
		response.InternalError(c, "failed to submit application")
		return
	}

	response.Created(c, app)
}

func (h *Handler) ListPendingApplications(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	apps, err := h.admissions.ListPending(ctx, identity)
	if err != nil {
		if errors.Is(err, service.ErrNotInstructor) {
			response.Forbidden(c, "registry access requires admin role")
			return
		}
		l.Error().Err(err).Msg("failed to list pending applications")
		response.InternalError(c, "failed to list pending applications")
		return
	}

	response.Success(c, gin.H{"applications": apps, "total": len(apps)})
}

func (h *Handler) ApproveApplication(c *gin.Context) {
	h.decideApplication(c, h.admissions.Approve)
}

func (h *Handler) RejectApplication(c *gin.Context) {
	h.decideApplication(c, h.admissions.Reject)
}

func (h *Handler) decideApplication(c *gin.Context, decide func(context.Context, token.Identity, string) (*domain.Application, error)) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	app, err := decide(ctx, identity, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotInstructor):
			response.Forbidden(c, "registry decisions require admin role")
		case errors.Is(err, repository.ErrApplicationNotFound):
			response.NotFound(c, "application not found")
		case errors.Is(err, service.ErrAlreadyDecided):
			response.Conflict(c, "application already decided")
		default:
			l.Error().Err(err).Msg("failed to decide application")
			response.InternalError(c, "failed to decide application")
		}
		return
	}

	response.Success(c, app)
}

// --- notice ---

func (h *Handler) GetNotice(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.notices.Get(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to get notice")
		response.InternalError(c, "failed to get notice")
		return
	}
	response.Success(c, n)
}

func (h *Handler) SetNotice(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	if identity.Role != "admin" {
		response.Forbidden(c, "notice broadcast requires admin role")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	n := notice.Notice{Text: req.Text, SetBy: identity.UserID}
	if err := h.notices.Set(ctx, n); err != nil {
		l.Error().Err(err).Msg("failed to set notice")
		response.InternalError(c, "failed to set notice")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionSetNotice, identity.UserID, req.Text, "notice broadcast set")
	response.Success(c, n)
}

func (h *Handler) ClearNotice(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	if identity.Role != "admin" {
		response.Forbidden(c, "notice broadcast requires admin role")
		return
	}

	if err := h.notices.Clear(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to clear notice")
		response.InternalError(c, "failed to clear notice")
		return
	}

	audit.Log(ctx, audit.ActionClearNotice, identity.UserID, "notice cleared")
	response.NoContent(c)
}

// --- classroom session ---

func (h *Handler) ClassroomSnapshot(c *gin.Context) {
	room := h.classroom(c)
	response.Success(c, room.Snapshot(h.chatTail))
}

func (h *Handler) TeardownClassroom(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.classrooms.Teardown(ctx, c.Param("courseID"), identity); err != nil {
		sessionError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) StartCamera(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req struct {
		DeviceID string `json:"device_id"`
	}
	// Body is optional; an empty body means default device.
	_ = c.ShouldBindJSON(&req)

	room := h.classroom(c)
	if err := room.StartCamera(ctx, identity, req.DeviceID); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) CycleCamera(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.CycleCamera(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) ToggleTorch(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.ToggleTorch(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) StartScreenShare(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.StartScreenShare(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) PlayMediaFile(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		MIME string `json:"mime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room := h.classroom(c)
	url, err := room.PlayMediaFile(ctx, identity, capture.MediaFile{Name: req.Name, MIME: req.MIME})
	if err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, gin.H{"media_url": url})
}

func (h *Handler) TerminateSession(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.Terminate(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) ToggleMute(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.ToggleMute(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

func (h *Handler) ToggleCamera(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.ToggleCamera(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Session)
}

// --- stage ---

func (h *Handler) SetSpotlight(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room := h.classroom(c)
	if err := room.SetSpotlight(ctx, identity, req.ParticipantID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotInstructor):
			response.Forbidden(c, err.Error())
		case errors.Is(err, roster.ErrUnknownParticipant):
			response.NotFound(c, "participant not found")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}
	response.Success(c, room.Snapshot(0).Stage)
}

func (h *Handler) ToggleSwap(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	if err := room.ToggleSwap(ctx, identity); err != nil {
		sessionError(c, err)
		return
	}
	response.Success(c, room.Snapshot(0).Stage)
}

// --- roster ---

func (h *Handler) ListParticipants(c *gin.Context) {
	room := h.classroom(c)
	response.Success(c, gin.H{"participants": room.Participants()})
}

func (h *Handler) ToggleParticipantMute(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	muted, err := room.ToggleParticipantMute(ctx, identity, c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	response.Success(c, gin.H{"participant_id": c.Param("id"), "is_muted": muted})
}

func (h *Handler) ToggleParticipantCamera(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	room := h.classroom(c)
	off, err := room.ToggleParticipantCamera(ctx, identity, c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	response.Success(c, gin.H{"participant_id": c.Param("id"), "is_camera_off": off})
}

func (h *Handler) SetHandRaised(c *gin.Context) {
	var req struct {
		Raised bool `json:"raised"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room := h.classroom(c)
	if err := room.RaiseHand(c.Param("id"), req.Raised); err != nil {
		rosterError(c, err)
		return
	}
	response.Success(c, gin.H{"participant_id": c.Param("id"), "is_hand_raised": req.Raised})
}

func rosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotInstructor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, roster.ErrUnknownParticipant):
		response.NotFound(c, "participant not found")
	default:
		response.InternalError(c, err.Error())
	}
}

// --- HUD ---

func (h *Handler) HUDActivity(c *gin.Context) {
	room := h.classroom(c)
	room.HUDActivity()
	response.Success(c, gin.H{"hud_visible": true})
}

func (h *Handler) HUDPanel(c *gin.Context) {
	var req struct {
		Open *bool `json:"open" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room := h.classroom(c)
	room.HUDPanel(*req.Open)
	response.Success(c, gin.H{"panel_open": *req.Open})
}

// --- visuals ---

func (h *Handler) GetVisuals(c *gin.Context) {
	response.Success(c, h.classroom(c).Visuals())
}

func (h *Handler) SetVisuals(c *gin.Context) {
	var req visual.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, h.classroom(c).SetVisuals(req))
}

func (h *Handler) ResetVisuals(c *gin.Context) {
	response.Success(c, h.classroom(c).ResetVisuals())
}

// --- chat history ---

func (h *Handler) ChatHistory(c *gin.Context) {
	room := h.classroom(c)
	messages := room.ChatTail(h.chatTail)
	if messages == nil {
		messages = []chat.Message{}
	}
	response.Success(c, gin.H{"messages": messages, "total": len(messages)})
}
