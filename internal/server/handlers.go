package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/wavelabel/review"
	"github.com/rustyeddy/wavelabel/viewer"
)

// StateResponse is the review state after an action, ready to draw.
type StateResponse struct {
	Position int           `json:"position"`
	Total    int           `json:"total"`
	Empty    bool          `json:"empty"`
	Chart    *viewer.Chart `json:"chart,omitempty"`
}

func newStateResponse(st review.State) StateResponse {
	resp := StateResponse{
		Position: st.Position,
		Total:    st.Total,
		Empty:    st.Empty(),
	}
	if st.Sample != nil {
		chart := viewer.Render(*st.Sample, st.Position, st.Total)
		resp.Chart = &chart
	}
	return resp
}

type pageData struct {
	StateResponse
	SessionID string
	Error     string
}

func (s *Server) renderPage(c *gin.Context, status int, st review.State, errMsg string) {
	c.HTML(status, "index.html", pageData{
		StateResponse: newStateResponse(st),
		SessionID:     s.Session.ID(),
		Error:         errMsg,
	})
}

func (s *Server) page(c *gin.Context) {
	s.renderPage(c, http.StatusOK, s.Session.State(), "")
}

func (s *Server) formPrev(c *gin.Context) {
	s.Session.Prev()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) formKeep(c *gin.Context) {
	if _, err := s.keep(); err != nil && !errors.Is(err, review.ErrNoSamples) {
		s.renderPage(c, http.StatusInternalServerError, s.Session.State(), err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) formDelete(c *gin.Context) {
	st, err := s.delete()
	if err != nil && !errors.Is(err, review.ErrNoSamples) {
		s.renderPage(c, http.StatusInternalServerError, st, "Saving the dataset failed: "+err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, newStateResponse(s.Session.State()))
}

func (s *Server) postPrev(c *gin.Context) {
	c.JSON(http.StatusOK, newStateResponse(s.Session.Prev()))
}

func (s *Server) postKeep(c *gin.Context) {
	st, err := s.keep()
	if err != nil && !errors.Is(err, review.ErrNoSamples) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newStateResponse(st))
}

func (s *Server) postDelete(c *gin.Context) {
	st, err := s.delete()
	if err != nil && !errors.Is(err, review.ErrNoSamples) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newStateResponse(st))
}

func (s *Server) keep() (review.State, error) {
	return s.Session.KeepCurrent()
}

func (s *Server) delete() (review.State, error) {
	st, err := s.Session.DeleteCurrent()
	if err != nil && !errors.Is(err, review.ErrNoSamples) {
		s.Log.WithError(err).Error("dataset write failed after delete")
		return st, err
	}
	if st.Empty() {
		s.Log.Warn("every sample has been deleted; regenerate the dataset to review more")
	}
	return st, err
}

// LogDecisions returns a session hook that logs every decision.
func LogDecisions(log logrus.FieldLogger) func(review.Decision) {
	return func(d review.Decision) {
		log.WithFields(logrus.Fields{
			"action":   d.Action,
			"symbol":   d.Symbol,
			"position": d.Position,
			"total":    d.Total,
		}).Info("sample reviewed")
	}
}
