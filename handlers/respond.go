package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("error encoding JSON response", zap.Error(err))
		}
	}
}

// decodeBody reads a JSON object into dst and returns the top-level keys in the
// order they appeared. Keys must match a json tag of dst exactly and may not be
// null.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) ([]string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("instance is not of a type(s) object")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return nil, describeDecodeError(err)
	}

	members, err := objectMembers(body)
	if err != nil {
		return nil, err
	}
	fields := jsonFields(dst)
	keys := make([]string, 0, len(members))
	for _, m := range members {
		typ, ok := fields[m.Key]
		if !ok {
			return nil, fmt.Errorf("instance is not allowed to have the additional property %q", m.Key)
		}
		if m.Null {
			return nil, fmt.Errorf("instance.%s is not of a type(s) %s", m.Key, jsonTypeName(typ.String()))
		}
		keys = append(keys, m.Key)
	}
	return keys, nil
}

// jsonFields maps the json names of a struct's fields to their types.
func jsonFields(dst any) map[string]reflect.Type {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = f.Type
	}
	return fields
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return errors.New("instance is not of a type(s) object")
		}
		return fmt.Errorf("instance.%s is not of a type(s) %s", typeErr.Field, jsonTypeName(typeErr.Type.String()))
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Errorf("instance is not allowed to have the additional property %s", field)
	}
	return err
}

func jsonTypeName(goType string) string {
	goType = strings.TrimPrefix(goType, "*")
	switch {
	case goType == "string":
		return "string"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "float"):
		return "number"
	}
	return goType
}

type objectMember struct {
	Key  string
	Null bool
}

// objectMembers lists the keys of a JSON object in document order.
func objectMembers(body []byte) ([]objectMember, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var members []objectMember
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		members = append(members, objectMember{Key: key, Null: string(raw) == "null"})
	}
	return members, nil
}

func urlID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s '%s'", param, raw)
	}
	return id, nil
}

// pathIDs parses each named URL parameter, writing a 400 on the first bad one.
func pathIDs(w http.ResponseWriter, r *http.Request, params ...string) ([]int64, bool) {
	ids := make([]int64, len(params))
	for i, p := range params {
		id, err := urlID(r, p)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}
