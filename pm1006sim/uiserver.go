package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func newUIRouter(sim *SimSensor) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sim.Status())
	}).Methods(http.MethodGet)

	r.HandleFunc("/model", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sim.Model())
	}).Methods(http.MethodGet)

	r.HandleFunc("/model", func(w http.ResponseWriter, r *http.Request) {
		postbody, errRead := io.ReadAll(r.Body)
		if errRead != nil {
			http.Error(w, "Reading POST request failed "+errRead.Error(), http.StatusBadRequest)
			return
		}
		mod := SensorModel{}
		if errMarsh := json.Unmarshal(postbody, &mod); errMarsh != nil {
			http.Error(w, "Invalid payload "+errMarsh.Error(), http.StatusBadRequest)
			return
		}
		log.Infof("updating model to %#v", mod)
		sim.SetModel(mod)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sim.Model())
	}).Methods(http.MethodPost)

	return r
}
