package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Trichiurus-lepturus/sonnx"
)

// CompileRequest is the request body of POST /compile.
type CompileRequest struct {
	// Source is the complete S-ONNX model source to compile.
	Source string `json:"source"`

	// AST requests the parsed-tree dump alongside the IR.
	AST bool `json:"ast,omitempty"`
}

// CompileResponse is the response body of POST /compile. Exactly one of
// IR or Errors is populated.
type CompileResponse struct {
	// ID identifies this compilation in server logs.
	ID string `json:"id"`

	IR     string   `json:"ir,omitempty"`
	AST    string   `json:"ast,omitempty"`
	Errors []string `json:"errors,omitempty"`

	// Fatal is true when Errors holds a single error that stopped
	// compilation (a malformed request body, a lexical or parser
	// failure, or another fatal compile error) rather than collected
	// semantic diagnostics.
	Fatal bool `json:"fatal,omitempty"`
}

func (cs CompileServer) handleCompile(w http.ResponseWriter, req *http.Request) {
	var body CompileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, CompileResponse{
			ID:     uuid.NewString(),
			Errors: []string{"malformed request body: " + err.Error()},
			Fatal:  true,
		})
		return
	}

	resp := CompileResponse{ID: uuid.NewString()}

	res, err := sonnx.CompileString(body.Source)
	if err != nil {
		var feErr *sonnx.FrontendError
		if errors.As(err, &feErr) {
			resp.Errors = []string{feErr.Error()}
			resp.Fatal = true
			log.Printf("INFO  compile %s: frontend error: %s", resp.ID, feErr.Error())
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}

		resp.Errors = []string{err.Error()}
		resp.Fatal = true
		log.Printf("ERROR compile %s: %s", resp.ID, err.Error())
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if !res.Ok() {
		for _, semErr := range res.Errors {
			resp.Errors = append(resp.Errors, semErr.Error())
		}
		log.Printf("INFO  compile %s: %d semantic error(s)", resp.ID, len(resp.Errors))
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	resp.IR = res.IR
	if body.AST {
		resp.AST = res.AST.String()
	}
	log.Printf("INFO  compile %s: ok, %d IR statement(s)",
		resp.ID, len(res.Program.Inputs)+len(res.Program.Initializers)+len(res.Program.Ops)+len(res.Program.Outputs))
	writeJSON(w, http.StatusOK, resp)
}

func (cs CompileServer) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, respObj interface{}) {
	data, err := json.Marshal(respObj)
	if err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
