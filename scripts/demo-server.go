// Demo HTTP server for exercising volley locally. It exposes a few
// endpoints with different failure behavior so every dashboard panel
// has something to show.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

var requestCount atomic.Int64

// simulateLatency sleeps 5-49ms to mimic a realistic API.
func simulateLatency() {
	time.Sleep(time.Duration(5+rand.Intn(45)) * time.Millisecond)
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	simulateLatency()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// flakyHandler fails roughly one request in three with a 500.
func flakyHandler(w http.ResponseWriter, _ *http.Request) {
	simulateLatency()
	if requestCount.Add(1)%3 == 0 {
		http.Error(w, "induced failure", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// alternateHandler returns 200 and 500 strictly alternating.
func alternateHandler(w http.ResponseWriter, _ *http.Request) {
	simulateLatency()
	if requestCount.Add(1)%2 == 0 {
		http.Error(w, "induced failure", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// slowHandler holds each request for 500ms to demonstrate pacer
// backpressure on a small worker pool.
func slowHandler(w http.ResponseWriter, _ *http.Request) {
	time.Sleep(500 * time.Millisecond)
	w.WriteHeader(http.StatusOK)
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	simulateLatency()
	http.Error(w, "nothing here", http.StatusNotFound)
}

func main() {
	port := flag.Int("port", 8080, "listen port")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", okHandler)
	mux.HandleFunc("/flaky", flakyHandler)
	mux.HandleFunc("/alternate", alternateHandler)
	mux.HandleFunc("/slow", slowHandler)
	mux.HandleFunc("/missing", notFoundHandler)

	addr := ":" + strconv.Itoa(*port)
	log.Printf("demo server listening on %s (endpoints: /ok /flaky /alternate /slow /missing)", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
