package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxUploadBytes  = 8 << 20
)

// fieldErrors is the 400 payload shape: field name to messages
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeJSONError writes a {"detail": ...} error response
func writeJSONError(w http.ResponseWriter, detail string, statusCode int) {
	writeDetail(w, statusCode, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeFieldErrors(w http.ResponseWriter, errs fieldErrors) {
	writeJSON(w, http.StatusBadRequest, errs)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("store error")
	}
	if detail == "possible duplicate" {
		writeFieldErrors(w, fieldErrors{"detail": {detail}})
		return
	}
	writeJSONError(w, detail, status)
}

// form is a request body read as either JSON or multipart/form-data
type form struct {
	values map[string]string
	files  map[string]upload
}

type upload struct {
	filename string
	data     []byte
}

func (f form) get(key string) string {
	return f.values[key]
}

// has reports whether key was sent at all, even empty
func (f form) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f form) intValue(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(f.values[key]))
	return n, err == nil
}

func readForm(r *http.Request) (form, error) {
	f := form{values: map[string]string{}, files: map[string]upload{}}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return f, errors.Wrap(err, "parse multipart form")
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
		for k, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			file, err := headers[0].Open()
			if err != nil {
				return f, errors.Wrapf(err, "open upload %s", k)
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return f, errors.Wrapf(err, "read upload %s", k)
			}
			f.files[k] = upload{filename: headers[0].Filename, data: data}
		}
	default:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			return f, errors.Wrap(err, "read body")
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return f, nil
		}
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			return f, errors.Wrap(err, "decode body")
		}
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				f.values[k] = val
			case float64:
				f.values[k] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				f.values[k] = strconv.FormatBool(val)
			case nil:
				f.values[k] = ""
			}
		}
	}
	return f, nil
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (form, bool) {
	f, err := readForm(r)
	if err != nil {
		writeJSONError(w, "Malformed request.", http.StatusBadRequest)
		return f, false
	}
	return f, true
}

// pathID reads the {id} route variable
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// listResponse is the paginated list envelope
type listResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// paginate slices items to the page named by the request's ?page= parameter and
// builds absolute next/previous links that keep the rest of the query.
func paginate[T any](r *http.Request, items []T, pageSize int) (listResponse, bool) {
	page := queryInt(r, "page")
	if page < 1 {
		if r.URL.Query().Has("page") {
			return listResponse{}, false
		}
		page = 1
	}

	start := (page - 1) * pageSize
	if start > 0 && start >= len(items) {
		return listResponse{}, false
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	results := items[start:end]
	if results == nil {
		results = []T{}
	}
	resp := listResponse{Count: len(items), Results: results}
	if end < len(items) {
		resp.Next = pageLink(r, page+1)
	}
	if page > 1 {
		resp.Previous = pageLink(r, page-1)
	}
	return resp, true
}

func pageLink(r *http.Request, page int) *string {
	u := url.URL{Scheme: getScheme(r), Host: r.Host, Path: r.URL.Path}
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T, pageSize int) {
	resp, ok := paginate(r, items, pageSize)
	if !ok {
		writeJSONError(w, "Invalid page.", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
