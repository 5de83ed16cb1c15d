package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/apierr"
)

var codeStatus = map[types.ErrorCode]int{
	types.CodeValidation: http.StatusBadRequest,
	types.CodeUnsuitable: http.StatusBadRequest,
	types.CodeNotFound:   http.StatusNotFound,
	types.CodeConflict:   http.StatusConflict,
	types.CodeForbidden:  http.StatusForbidden,
	types.CodeInternal:   http.StatusInternalServerError,
}

// FromError maps domain errors to API errors. Unknown errors become 500.
func FromError(err error) *apierr.Error {
	if code := types.CodeOf(err); code != "" {
		status, ok := codeStatus[code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return apierr.New(status, string(code), err)
	}
	return apierr.As(err)
}

// RespondErr writes err with the status its code maps to. Internal causes are
// not echoed to the client.
func RespondErr(c *gin.Context, err error) {
	ae := FromError(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, nil)
		return
	}
	var we *types.Error
	if errors.As(err, &we) && we.Message != "" {
		RespondError(c, ae.Status, ae.Code, errors.New(we.Message))
		return
	}
	RespondError(c, ae.Status, ae.Code, err)
}
