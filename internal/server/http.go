package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calcemu/addcalc/internal/expression"
	"github.com/calcemu/addcalc/internal/types"
	"github.com/goccy/go-json"
)

var basePathRegexp = regexp.MustCompile(`^/v1/evaluations`)

type evaluation struct {
	mu sync.RWMutex

	Name       string    `json:"name"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime,omitempty"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	Expression string    `json:"expression"`
	Result     string    `json:"result,omitempty"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !basePathRegexp.MatchString(r.URL.Path) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if strings.HasSuffix(r.URL.Path, "/evaluations") {
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
			return

		case http.MethodPost:
			h.createEvaluation(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	evaluationID := r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]
	switch r.Method {
	case http.MethodGet:
		h.getEvaluation(w, r, evaluationID)
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var ev *evaluation
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if ev.Expression == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := fmt.Sprintf("00000000-0000-0000-0000-%012x", atomic.AddUint64(&h.idBase, 1))
	ev.Name = r.URL.Path + "/" + id
	ev.StartTime = time.Now().UTC()
	ev.State = "ACTIVE"
	h.evaluations.Store(id, ev)
	resJSON(w, http.StatusOK, ev)
	go h.evaluate(ev)
}

func (h *httpHandler) evaluate(ev *evaluation) {
	ret, err := expression.Evaluate(ev.Expression)

	ev.mu.Lock()
	defer ev.mu.Unlock()
	ev.EndTime = time.Now().UTC()
	if err == nil {
		ev.State = "SUCCEEDED"
		ev.Result = strconv.FormatInt(ret, 10)
		return
	}

	ev.State = "FAILED"
	var exception types.Exception
	if errors.As(err, &exception) {
		var s strings.Builder
		if dumpErr := json.NewEncoder(&s).Encode(exception.Exception()); dumpErr != nil {
			log.Printf("failed to encode evaluation exception: %v", dumpErr)
			ev.Error = fmt.Sprint(err)
		} else {
			ev.Error = strings.TrimSuffix(s.String(), "\n")
		}
	} else {
		ev.Error = fmt.Sprint(err)
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	for _, ev := range results {
		ev.mu.RLock()
	}
	defer func() {
		for _, ev := range results {
			ev.mu.RUnlock()
		}
	}()
	sort.Slice(results, func(i, j int) bool {
		return results[i].StartTime.Before(results[j].StartTime)
	})

	resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results})
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	evaluation := ret.(*evaluation)

	evaluation.mu.RLock()
	defer evaluation.mu.RUnlock()
	resJSON(w, http.StatusOK, evaluation)
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
