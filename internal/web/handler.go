// Package web serves the dashboard page and its JSON endpoints.
package web

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kitreport/internal/clients"
	"kitreport/internal/kit"
	"kitreport/internal/provision"
	"kitreport/internal/report"
	"kitreport/internal/session"
	"kitreport/internal/tasks"
	"kitreport/pkg/dates"
	"kitreport/pkg/models"
)

type Handler struct {
	Sessions   session.Service
	Clients    *clients.Repo
	Tasks      *tasks.Store
	Runner     *tasks.Runner
	KitBaseURL string
	Logger     *log.Logger

	// newKit builds the API client for the signed-in token.
	newKit func(token string) *kit.Client
}

func NewHandler(kitBaseURL string, sessions session.Service, clientsRepo *clients.Repo, store *tasks.Store, runner *tasks.Runner) *Handler {
	h := &Handler{
		Sessions:   sessions,
		Clients:    clientsRepo,
		Tasks:      store,
		Runner:     runner,
		KitBaseURL: kitBaseURL,
		Logger:     log.Default(),
	}
	h.newKit = func(token string) *kit.Client {
		return kit.NewClient(token, h.KitBaseURL)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	authed := r.Group("/")
	authed.Use(session.Middleware(h.Sessions))
	authed.GET("", h.index)
	authed.POST("", h.submit)
	authed.GET("/get_tags", h.getTags)
	authed.GET("/task_status/:id", h.taskStatus)
}

type pageData struct {
	ClientName string
	Banners    []*provision.Banner
	Boxes      map[string]*provision.SelectBox
	Form       *provision.Form
	Record     *models.ClientRecord
	Results    *models.Report
}

// buildPage assembles everything the dashboard template needs: the
// provisioned select boxes, the date form with defaults, banners and
// the stored client record.
func (h *Handler) buildPage(c *gin.Context, kitClient *kit.Client, sess *session.Session) *pageData {
	ctx := c.Request.Context()

	form := provision.NewForm()
	form.ApplyDefaultDates(time.Now())
	if f := popFlash(c); f != nil {
		form.ShowAlert(f.Message, f.Severity)
	}

	boxes := provision.NewTargets()
	prov := provision.NewProvisioner(provision.KitSource{Client: kitClient}, provision.AsSelectionTargets(boxes))
	prov.Logger = h.Logger
	// fetch failure is logged inside; the page renders with empty
	// selectors and no error banner
	_ = prov.LoadAndPopulate(ctx)

	record, err := h.Clients.Get(ctx, sess.ClientName)
	if err != nil {
		h.Logger.Printf("[web] load client record: %v", err)
	}

	return &pageData{
		ClientName: sess.ClientName,
		Banners:    form.Banners(),
		Boxes:      boxes,
		Form:       form,
		Record:     record,
	}
}

func (h *Handler) render(c *gin.Context, data *pageData) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(c.Writer, data); err != nil {
		h.Logger.Printf("[web] render: %v", err)
	}
}

func (h *Handler) index(c *gin.Context) {
	sess := session.MustGet(c)
	data := h.buildPage(c, h.newKit(sess.AccessToken), sess)
	h.render(c, data)
}

func (h *Handler) submit(c *gin.Context) {
	if c.PostForm("client_start_date") != "" || c.PostForm("initial_subscriber_count") != "" {
		h.saveClientSettings(c)
		return
	}
	h.runReport(c)
}

func (h *Handler) saveClientSettings(c *gin.Context) {
	sess := session.MustGet(c)

	startDate := c.PostForm("client_start_date")
	countRaw := c.PostForm("initial_subscriber_count")
	if startDate == "" || countRaw == "" {
		setFlash(c, "Please fill in all required fields", "error")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if _, err := dates.Parse(startDate); err != nil {
		setFlash(c, "Invalid date format, use YYYY-MM-DD", "error")
		c.Redirect(http.StatusFound, "/")
		return
	}
	count, err := strconv.Atoi(countRaw)
	if err != nil || count < 0 {
		setFlash(c, "Please enter a valid number for initial subscriber count", "error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	rec := models.ClientRecord{
		Name:               sess.ClientName,
		StartDate:          startDate,
		InitialSubscribers: count,
	}
	if err := h.Clients.Upsert(c.Request.Context(), rec); err != nil {
		h.Logger.Printf("[web] save client record: %v", err)
		setFlash(c, "Saving client data failed", "error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	setFlash(c, "Client data saved successfully!", "success")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) runReport(c *gin.Context) {
	sess := session.MustGet(c)
	ctx := c.Request.Context()
	kitClient := h.newKit(sess.AccessToken)

	startDate := c.PostForm("start_date")
	endDate := c.PostForm("end_date")
	if err := dates.Validate(startDate, endDate); err != nil {
		setFlash(c, err.Error(), "error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	facebookTag := formTagID(c, "facebook_tag")
	creatorTag := formTagID(c, "creator_tag")
	sparkloopTag := formTagID(c, "sparkloop_tag")

	currentTotal, err := kitClient.TotalSubscribers(ctx)
	if err != nil {
		h.Logger.Printf("[web] current total: %v", err)
	}
	record, err := h.Clients.Get(ctx, sess.ClientName)
	if err != nil {
		h.Logger.Printf("[web] load client record: %v", err)
	}

	svc := report.NewService(kitClient)
	rep, err := svc.SubscriberReport(ctx, report.Params{
		FacebookTag:  facebookTag,
		CreatorTag:   creatorTag,
		SparkloopTag: sparkloopTag,
		StartDate:    startDate,
		EndDate:      endDate,
		CurrentTotal: currentTotal,
		Client:       record,
	})
	if err != nil {
		h.Logger.Printf("[web] report failed: %v", err)
		setFlash(c, "Report generation failed, please try again", "error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	data := h.buildPage(c, kitClient, sess)
	data.Results = rep

	// re-apply the submitted choices over the suggestions
	data.Form.StartDate, data.Form.EndDate = startDate, endDate
	for name, id := range map[string]*models.TagID{
		kit.TargetFacebook:  facebookTag,
		kit.TargetCreator:   creatorTag,
		kit.TargetSparkloop: sparkloopTag,
	} {
		if id != nil {
			data.Boxes[name].Select(id.String())
		}
	}

	if c.PostForm("include_open_rates") == "true" {
		taskID := tasks.NewTaskID()
		rep.OpenRatesTaskID = taskID
		h.Runner.StartOpenRates(taskID, svc, startDate, endDate, analysisTags(facebookTag, creatorTag, sparkloopTag))
		data.Form.ShowAlert("Open rates calculation started in background. Task ID: "+taskID, "info")
		data.Banners = data.Form.Banners()
	}

	h.render(c, data)
}

func (h *Handler) getTags(c *gin.Context) {
	sess := session.MustGet(c)

	catalog, err := h.newKit(sess.AccessToken).AllTags(c.Request.Context())
	if err != nil {
		h.Logger.Printf("[web] get_tags failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch tags"})
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *Handler) taskStatus(c *gin.Context) {
	ts, err := h.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if ts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, ts)
}

func formTagID(c *gin.Context, field string) *models.TagID {
	v := c.PostForm(field)
	if v == "" {
		return nil
	}
	id := models.TagID(v)
	return &id
}

// analysisTags names the selected sources for the open-rate
// breakdown.
func analysisTags(facebook, creator, sparkloop *models.TagID) []models.TagRef {
	var out []models.TagRef
	if facebook != nil {
		out = append(out, models.TagRef{ID: *facebook, Name: "Facebook Ads"})
	}
	if creator != nil {
		out = append(out, models.TagRef{ID: *creator, Name: "Creator Network"})
	}
	if sparkloop != nil {
		out = append(out, models.TagRef{ID: *sparkloop, Name: "SparkLoop"})
	}
	return out
}
