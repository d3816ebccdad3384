package server

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x/distribution"
	"github.com/tendermint/tendermint/libs/log"
)

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONErrs(w, code, []string{errText})
}

// JSONErrs write multiple errors as JSON encoded response.
func JSONErrs(w http.ResponseWriter, code int, errs []string) {
	resp := struct {
		Errors []string `json:"errors"`
	}{
		Errors: errs,
	}
	JSONResp(w, code, resp)
}

// writeError responds with the status matching the kind of the error.
// Details of errors that are not registered are never exposed.
func writeError(w http.ResponseWriter, logger log.Logger, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
		JSONErr(w, code, http.StatusText(code))
		return
	}
	_, msg := errors.ABCIInfo(err, false)
	JSONErr(w, code, msg)
}

// httpStatus maps an error to the HTTP status code describing it best.
func httpStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusUnauthorized
	case errors.ErrState.Is(err),
		errors.ErrDuplicate.Is(err),
		errors.ErrImmutable.Is(err),
		distribution.ErrAlreadyClaimed.Is(err):
		return http.StatusConflict
	case errors.ErrDatabase.Is(err),
		errors.ErrHuman.Is(err),
		errors.ErrPanic.Is(err):
		return http.StatusInternalServerError
	}
	code, _ := errors.ABCIInfo(err, false)
	if code == 1 {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// parseSequence decodes a decimal identifier into its storage key.
func parseSequence(raw string) ([]byte, uint64, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, 0, errors.Wrapf(errors.ErrInput, "invalid identifier %q", raw)
	}
	return encodeSequence(n), n, nil
}

func encodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

func decodeSequence(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
