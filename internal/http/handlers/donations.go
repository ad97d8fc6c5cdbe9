package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Wilcohennink/e-wall-of-fame/internal/http/middleware"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
	"github.com/Wilcohennink/e-wall-of-fame/internal/storage"
)

type DonationHandler struct {
	Logger *slog.Logger
	Repo   *donations.Repo
	Media  storage.Storage
}

func NewDonationHandler(logger *slog.Logger, repo *donations.Repo, media storage.Storage) *DonationHandler {
	return &DonationHandler{Logger: logger, Repo: repo, Media: media}
}

// POST /api/donations
// Multipart form: name, amount_cents, link_url (optional), photo (optional).
// Creates the pending record; the client then asks for a checkout session
// referencing its id.
func (h *DonationHandler) Create(c *gin.Context) {
	fields := map[string]string{}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		fields["name"] = "This field is required."
	}

	amountCents, err := strconv.Atoi(c.PostForm("amount_cents"))
	if err != nil || amountCents <= 0 {
		fields["amount_cents"] = "Must be a positive integer (minor units)."
	}

	var linkURL *string
	if link := strings.TrimSpace(c.PostForm("link_url")); link != "" {
		if !validLinkURL(link) {
			fields["link_url"] = "Must start with http:// or https://."
		} else {
			linkURL = &link
		}
	}

	if len(fields) > 0 {
		middleware.Fail(c, apperr.InvalidErr("Name and amount are required.", fields))
		return
	}

	var photoURL *string
	if fh, err := c.FormFile("photo"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		defer f.Close()

		res, err := h.Media.Put(c.Request.Context(), f, storage.PutInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
		if err != nil {
			h.Logger.Error("photo upload failed", "err", err)
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		photoURL = &res.URL
	}

	d, err := h.Repo.Insert(c.Request.Context(), donations.InsertParams{
		DonorName:   name,
		AmountCents: amountCents,
		PhotoURL:    photoURL,
		LinkURL:     linkURL,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Logger.Info("donation created", "donation_id", d.ID, "amount_cents", d.AmountCents)
	c.JSON(http.StatusCreated, d)
}

// GET /api/donations/:id — the success page loads the record it just paid for.
func (h *DonationHandler) Get(c *gin.Context) {
	d, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, donations.ErrNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Donation not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, d)
}
