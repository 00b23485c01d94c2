package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/Rakhulsr/mellomelt/app/utils/format"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("request body is not valid JSON")

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadBody)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(helpers.ContextKeyUserID).(string)
	return id
}

func userFrom(r *http.Request) *models.User {
	u, _ := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	return u
}

func cartIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(helpers.ContextKeyCartID).(string)
	return id
}

// respondError maps service and repository errors onto status codes.
// Anything unrecognised is logged and reported as a 500.
func respondError(rnd *render.Render, logger *zap.Logger, w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		_ = rnd.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "please correct the highlighted fields",
			"errors": verr.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadBody):
		status = http.StatusBadRequest
	case errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrAddressNotFound),
		errors.Is(err, repositories.ErrWishlistItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrSubmissionInProgress),
		errors.Is(err, services.ErrCheckoutComplete),
		errors.Is(err, services.ErrWrongStep),
		errors.Is(err, services.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidPayment):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrSubmissionTimeout):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		logger.Error("handlers: request failed", zap.Error(err))
		_ = rnd.JSON(w, status, map[string]string{"error": "something went wrong, please try again"})
		return
	}
	_ = rnd.JSON(w, status, map[string]string{"error": err.Error()})
}

type formattedTotals struct {
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	DeliveryFee  string `json:"deliveryFee"`
	CODSurcharge string `json:"codSurcharge"`
	GrandTotal   string `json:"grandTotal"`
}

func formatTotals(t calc.Totals) formattedTotals {
	delivery := format.FormatRupee(t.DeliveryFee)
	if t.DeliveryFee.IsZero() {
		delivery = "FREE"
	}
	return formattedTotals{
		Subtotal:     format.FormatRupee(t.Subtotal),
		Tax:          format.FormatRupee(t.Tax),
		DeliveryFee:  delivery,
		CODSurcharge: format.FormatRupee(t.CODSurcharge),
		GrandTotal:   format.FormatRupee(t.GrandTotal),
	}
}

type cartResponse struct {
	Cart       models.CartSnapshot `json:"cart"`
	TotalPrice string              `json:"formattedTotalPrice"`
	Warning    string              `json:"warning,omitempty"`
}

func newCartResponse(snap models.CartSnapshot, cart *services.CartStore) cartResponse {
	resp := cartResponse{Cart: snap, TotalPrice: format.FormatRupee(snap.TotalPrice)}
	if cart.PersistWarning() != nil {
		resp.Warning = "Your cart could not be saved on this device; it will be lost if you leave the site."
	}
	return resp
}
