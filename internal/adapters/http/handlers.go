package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"revive/internal/application/orchestrators"
	"revive/internal/application/projections"
	"revive/internal/domain/member"
)

// maxUploadBytes bounds the multipart form, photo included.
const maxUploadBytes = 8 << 20

// memberPayload is the wire shape of a member on the API.
type memberPayload struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Weight         float64 `json:"weight,omitempty"`
	MembershipType string  `json:"membershipType"`
	StartDate      string  `json:"startDate,omitempty"`
	EndDate        string  `json:"endDate,omitempty"`
	PaymentStatus  string  `json:"paymentStatus"`
	PhotoURL       string  `json:"photo,omitempty"`
}

func renderMember(m member.Member) memberPayload {
	p := memberPayload{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Weight:         m.Weight,
		MembershipType: m.MembershipType,
		PaymentStatus:  m.PaymentStatus,
		PhotoURL:       m.PhotoURL,
	}
	if !m.StartDate.IsZero() {
		p.StartDate = m.StartDate.String()
	}
	if !m.EndDate.IsZero() {
		p.EndDate = m.EndDate.String()
	}
	if p.PhotoURL == "" && m.Photo != nil {
		p.PhotoURL = "/api/members/" + m.ID + "/photo"
	}
	return p
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response_failed", "error", err.Error())
	}
}

// memberInputFromForm builds the orchestrator input from a multipart form.
func memberInputFromForm(r *http.Request) (orchestrators.SaveMemberInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return orchestrators.SaveMemberInput{}, err
	}

	input := orchestrators.SaveMemberInput{
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		MembershipType: r.FormValue("membershipType"),
		PaymentStatus:  r.FormValue("paymentStatus"),
	}

	if v := r.FormValue("weight"); v != "" {
		weight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return orchestrators.SaveMemberInput{}, errors.New("weight must be a number")
		}
		input.Weight = weight
	}
	if v := r.FormValue("startDate"); v != "" {
		d, err := member.ParseDate(v)
		if err != nil {
			return orchestrators.SaveMemberInput{}, errors.New("startDate must be YYYY-MM-DD")
		}
		input.StartDate = d
	}
	if v := r.FormValue("endDate"); v != "" {
		d, err := member.ParseDate(v)
		if err != nil {
			return orchestrators.SaveMemberInput{}, errors.New("endDate must be YYYY-MM-DD")
		}
		input.EndDate = d
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return orchestrators.SaveMemberInput{}, err
		}
		input.Photo = data
	}

	return input, nil
}

// handleListMembers serves GET /api/members.
func handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.GetMemberPageQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			query.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			query.Limit = limit
		}
	}

	result, err := projections.QueryGetMemberPage(r.Context(), query,
		projections.GetMemberPageDeps{MemberStore: stores.MemberStore})
	if err != nil {
		internalError(w, err)
		return
	}

	payload := struct {
		Data    []memberPayload `json:"data"`
		HasMore bool            `json:"hasMore"`
	}{Data: []memberPayload{}, HasMore: result.HasMore}
	for _, m := range result.Members {
		payload.Data = append(payload.Data, renderMember(m))
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleCreateMember serves POST /api/members.
func handleCreateMember(w http.ResponseWriter, r *http.Request) {
	input, err := memberInputFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := orchestrators.ExecuteCreateMember(r.Context(), input,
		orchestrators.CreateMemberDeps{MemberStore: stores.MemberStore, Now: timeNow})
	if err != nil {
		if member.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	slog.Info("member_created", "member_id", created.ID, "plan", created.MembershipType)
	writeJSON(w, http.StatusCreated, renderMember(created))
}

// handleUpdateMember serves PUT /api/members/{id}.
func handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	input, err := memberInputFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := orchestrators.ExecuteUpdateMember(r.Context(),
		orchestrators.UpdateMemberInput{ID: id, SaveMemberInput: input},
		orchestrators.UpdateMemberDeps{MemberStore: stores.MemberStore, Now: timeNow})
	if err != nil {
		switch {
		case errors.Is(err, member.ErrNotFound):
			http.Error(w, "member not found", http.StatusNotFound)
		case member.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	// The update may have kept an existing photo the input did not carry.
	if updated.Photo == nil {
		withPhoto, err := stores.MemberStore.HasPhoto(r.Context(), []string{updated.ID})
		if err != nil {
			slog.Warn("has_photo_lookup_failed", "member_id", updated.ID, "error", err.Error())
		} else if withPhoto[updated.ID] {
			updated.PhotoURL = "/api/members/" + updated.ID + "/photo"
		}
	}

	writeJSON(w, http.StatusOK, renderMember(updated))
}

// handleDeleteMember serves DELETE /api/members/{id}.
func handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMember(r.Context(), r.PathValue("id"),
		orchestrators.DeleteMemberDeps{MemberStore: stores.MemberStore})
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberPhoto serves GET /api/members/{id}/photo.
func handleMemberPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := stores.MemberStore.GetPhoto(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}

// handleDashboardStats serves GET /api/dashboard/stats.
func handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardDeps{MemberStore: stores.MemberStore, Now: timeNow})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		TotalMembers    int `json:"totalMembers"`
		ActiveMembers   int `json:"activeMembers"`
		UnpaidMembers   int `json:"unpaidMembers"`
		ExpiringMembers int `json:"expiringMembers"`
	}{
		TotalMembers:    result.TotalMembers,
		ActiveMembers:   result.ActiveMembers,
		UnpaidMembers:   result.UnpaidMembers,
		ExpiringMembers: result.ExpiringMembers,
	})
}

// handleDashboardExpiring serves GET /api/dashboard/expiring.
func handleDashboardExpiring(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardDeps{MemberStore: stores.MemberStore, Now: timeNow})
	if err != nil {
		internalError(w, err)
		return
	}

	type expiringPayload struct {
		memberPayload
		DaysRemaining int `json:"daysRemaining"`
	}
	payload := struct {
		Data []expiringPayload `json:"data"`
	}{Data: []expiringPayload{}}
	for _, e := range result.Expiring {
		payload.Data = append(payload.Data, expiringPayload{
			memberPayload: renderMember(e.Member),
			DaysRemaining: e.DaysRemaining,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}
