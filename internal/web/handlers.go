package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
)

// Web handlers

func (s *Server) handlePage(page render.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		data := render.Build(s.svc.Roadmap(), s.svc.State(ctx), page, render.Options{
			Expand:    render.ParseExpand(c.Query("expand")),
			Day:       c.Query("day"),
			StartDate: s.startDate,
		})
		c.HTML(http.StatusOK, page.TemplateName(), data)
	}
}

// handleToggle flips a task, or sets it when the form carries done=true|false,
// then sends the browser back to the page it came from.
func (s *Server) handleToggle(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var err error
	if v, ok := c.GetPostForm("done"); ok {
		done, perr := strconv.ParseBool(v)
		if perr != nil {
			c.String(http.StatusBadRequest, "done must be true or false")
			return
		}
		err = s.svc.SetTask(ctx, id, done)
	} else {
		_, err = s.svc.Toggle(ctx, id)
	}
	if errors.Is(err, service.ErrUnknownTask) {
		c.String(http.StatusNotFound, "unknown task %s", id)
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, backTo(c, "/tree")+"#"+id)
}

// handleReset clears progress only when the form says confirm=yes.
func (s *Server) handleReset(c *gin.Context) {
	confirmed := c.PostForm("confirm") == "yes"
	if _, err := s.svc.Reset(c.Request.Context(), func() bool { return confirmed }); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c, "/"))
}

// backTo returns the same-origin Referer path, or fallback.
func backTo(c *gin.Context, fallback string) string {
	ref := c.Request.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.RequestURI()
}

// API handlers

type aggregateJSON struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Pct   int `json:"pct"`
}

type dayJSON struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	aggregateJSON
}

type weekJSON struct {
	Anchor string    `json:"anchor"`
	Title  string    `json:"title"`
	Days   []dayJSON `json:"days"`
	aggregateJSON
}

type progressJSON struct {
	Overall aggregateJSON `json:"overall"`
	Weeks   []weekJSON    `json:"weeks"`
	Stale   []string      `json:"stale,omitempty"`
}

func toAggregateJSON(a domain.Aggregate) aggregateJSON {
	return aggregateJSON{Total: a.Total, Done: a.Done, Pct: a.Pct}
}

func (s *Server) handleAPIProgress(c *gin.Context) {
	ctx := c.Request.Context()
	ov := s.svc.Overview(ctx)
	out := progressJSON{
		Overall: toAggregateJSON(ov.Overall),
		Weeks:   make([]weekJSON, 0, len(ov.Weeks)),
		Stale:   s.svc.Stale(ctx),
	}
	for _, w := range ov.Weeks {
		wj := weekJSON{
			Anchor:        w.Anchor,
			Title:         w.Title,
			Days:          make([]dayJSON, 0, len(w.Days)),
			aggregateJSON: toAggregateJSON(w.Progress),
		}
		for _, d := range w.Days {
			wj.Days = append(wj.Days, dayJSON{Key: d.Key, Title: d.Title, aggregateJSON: toAggregateJSON(d.Progress)})
		}
		out.Weeks = append(out.Weeks, wj)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAPIState(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.State(c.Request.Context()))
}

type taskJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

func (s *Server) handleAPIDay(c *gin.Context) {
	day, err := s.svc.Day(c.Request.Context(), c.Param("key"))
	if errors.Is(err, service.ErrUnknownDay) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tasks := make([]taskJSON, 0, len(day.Tasks))
	for _, t := range day.Tasks {
		tasks = append(tasks, taskJSON{ID: t.ID, Label: t.Task.Label, Done: t.Done})
	}
	c.JSON(http.StatusOK, gin.H{
		"key":      day.Key,
		"title":    day.Day.Title,
		"progress": toAggregateJSON(day.Progress),
		"tasks":    tasks,
	})
}

type setTaskRequest struct {
	Done *bool `json:"done" binding:"required"`
}

func (s *Server) handleAPISetTask(c *gin.Context) {
	var req setTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"done\": true|false}"})
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := s.svc.SetTask(ctx, id, *req.Done); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownTask) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"done":    *req.Done,
		"overall": toAggregateJSON(s.svc.Overview(ctx).Overall),
	})
}
