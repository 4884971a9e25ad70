package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/snonux/transcheck/internal"
	"codeberg.org/snonux/transcheck/internal/deeplink"
	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/processor"
	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/review"
	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/translation"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type languageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type translateRequest struct {
	Text      string   `json:"text"`
	Languages []string `json:"languages"`
}

type translateResponse struct {
	Translations map[string]string         `json:"translations"`
	Failed       string                    `json:"failed,omitempty"`
	Error        string                    `json:"error,omitempty"`
	Kind         string                    `json:"kind,omitempty"`
	Record       *record.TranslationRecord `json:"record,omitempty"`
}

type listedRecord struct {
	*record.TranslationRecord
	Date        string `json:"date"`
	Highlighted bool   `json:"highlighted"`
}

type listResponse struct {
	Records       []listedRecord `json:"records"`
	Total         int            `json:"total"`
	ActiveFilters int            `json:"activeFilters"`
}

type textRequest struct {
	Text string `json:"text"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Kind: translation.Kind(err)})
}

// storeError maps store failures to a status code
func storeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrCorrupt) {
		status = http.StatusConflict
	}
	abort(c, status, err)
}

func (s *Server) handleLanguages(c *gin.Context) {
	out := make([]languageResponse, 0, len(language.All()))
	for _, l := range language.All() {
		out = append(out, languageResponse{Code: l.Code, Name: l.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleStats(c *gin.Context) {
	records, err := s.engine.Records(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review.Summarize(records))
}

func (s *Server) handleTranslate(c *gin.Context) {
	if s.processor == nil {
		abort(c, http.StatusServiceUnavailable, errors.New("no translator configured"))
		return
	}

	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	langs := s.languages
	if len(req.Languages) > 0 {
		var err error
		if langs, err = language.ParseCodes(strings.Join(req.Languages, ",")); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}

	result, err := s.processor.Run(c.Request.Context(), req.Text, langs)
	switch {
	case errors.Is(err, processor.ErrEmptyText), errors.Is(err, processor.ErrNoLanguages):
		abort(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, language.ErrUnknownLanguage):
		abort(c, http.StatusBadRequest, err)
		return
	case err != nil:
		storeError(c, err)
		return
	}

	resp := translateResponse{
		Translations: result.Translations,
		Failed:       result.Failed,
		Record:       result.Record,
	}
	status := http.StatusCreated
	if result.Err != nil {
		resp.Error = result.Message
		resp.Kind = translation.Kind(result.Err)
		status = http.StatusBadGateway
		if result.Record != nil {
			status = http.StatusMultiStatus
		}
		if translation.IsConfigurationError(result.Err) {
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, resp)
}

func (s *Server) handleList(c *gin.Context) {
	query := c.Request.URL.Query()

	r, err := review.ParseTimeRange(query.Get("range"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	filter := review.Filter{Range: r}
	if raw := query.Get("languages"); raw != "" {
		filter.Languages, err = language.ParseCodes(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}

	all, filtered, err := s.engine.View(c.Request.Context(), filter)
	if err != nil {
		storeError(c, err)
		return
	}

	highlight, found := deeplink.Resolve(filtered, deeplink.FromValues(query))

	resp := listResponse{
		Records:       make([]listedRecord, 0, len(filtered)),
		Total:         len(all),
		ActiveFilters: filter.Active(),
	}
	for i, rec := range filtered {
		resp.Records = append(resp.Records, listedRecord{
			TranslationRecord: rec,
			Date:              internal.FormatTimestamp(rec.Timestamp),
			Highlighted:       found && i == highlight,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func parseTimestamp(c *gin.Context) (int64, bool) {
	ts, err := strconv.ParseInt(c.Param("ts"), 10, 64)
	if err != nil {
		abort(c, http.StatusBadRequest, errors.New("invalid record id: "+c.Param("ts")))
		return 0, false
	}
	return ts, true
}

// parseEntry reads the record id and language code of an entry route
func parseEntry(c *gin.Context) (int64, string, bool) {
	ts, ok := parseTimestamp(c)
	if !ok {
		return 0, "", false
	}
	lang, err := language.Normalize(c.Param("lang"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return 0, "", false
	}
	return ts, lang, true
}

func (s *Server) handleStatus(c *gin.Context) {
	ts, lang, ok := parseEntry(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	status, err := record.ParseStatus(req.Status)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	records, err := s.engine.SetStatus(c.Request.Context(), ts, lang, status)
	s.respondRecord(c, records, ts, err)
}

func (s *Server) handleText(c *gin.Context) {
	ts, lang, ok := parseEntry(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	records, err := s.engine.SetText(c.Request.Context(), ts, lang, req.Text)
	s.respondRecord(c, records, ts, err)
}

func (s *Server) handleComment(c *gin.Context) {
	ts, lang, ok := parseEntry(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	records, err := s.engine.AddComment(c.Request.Context(), ts, lang, req.Text)
	s.respondRecord(c, records, ts, err)
}

func (s *Server) handleDelete(c *gin.Context) {
	ts, ok := parseTimestamp(c)
	if !ok {
		return
	}
	if _, err := s.engine.Delete(c.Request.Context(), ts); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondRecord writes the updated record. Unknown ids are a no-op in the
// engine and a 404 here.
func (s *Server) respondRecord(c *gin.Context, records []*record.TranslationRecord, ts int64, err error) {
	if err != nil {
		storeError(c, err)
		return
	}
	i := record.Find(records, ts)
	if i < 0 {
		abort(c, http.StatusNotFound, errors.New("record not found"))
		return
	}
	c.JSON(http.StatusOK, records[i])
}
