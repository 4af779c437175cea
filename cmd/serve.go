package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/db"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/remi"
	"github.com/jsphweid/remitok/score"
)

var serveMetadata bool

func init() {
	serveCmd.Flags().BoolVar(&serveMetadata, "metadata", false, "look up file metadata in DynamoDB")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the tokenizer over HTTP",
	Long:  `Serves the tokenizer over HTTP: POST /encode and POST /decode.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleEncode(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, 400, "Could not read uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	dat, err := io.ReadAll(file)
	if err != nil {
		writeError(w, 400, "Could not read uploaded file: "+err.Error())
		return
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		writeError(w, 400, "Could not parse MIDI file: "+err.Error())
		return
	}
	sc, err := score.Parse(parsed, false)
	if err != nil {
		writeError(w, 400, "Could not read score: "+err.Error())
		return
	}

	enc, err := remi.NewEncoder(sc, true, false)
	if err != nil {
		writeError(w, 422, err.Error())
		return
	}
	tokens, err := enc.Tokens()
	if err != nil {
		writeError(w, 422, err.Error())
		return
	}

	res := model.EncodeResponse{Tokens: tokens}
	if serveMetadata {
		metadatas, err := db.GetMidiMetadatas([]string{header.Filename})
		if err != nil {
			fmt.Printf("Could not fetch metadata for %v: %v\n", header.Filename, err)
		} else if m, ok := metadatas[header.Filename]; ok {
			res.Metadata = &m
		}
	}
	json.NewEncoder(w).Encode(res)
}

func HandleDecode(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "Could not read request body: "+err.Error())
		return
	}

	var input model.DecodeRequest
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, 400, "Could not unmarshal request body: "+err.Error())
		return
	}
	if len(input.Tokens) == 0 {
		writeError(w, 400, "No tokens given")
		return
	}

	res := remi.Decode(input.Tokens, &remi.DecodeOptions{BPM: input.BPM})

	w.Header().Set("Content-Type", "audio/midi")
	if _, err := res.ToSMF().WriteTo(w); err != nil {
		fmt.Printf("Could not write MIDI response: %v\n", err)
	}
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/encode", HandleEncode).Methods("POST")
	router.HandleFunc("/decode", HandleDecode).Methods("POST")

	addr := constants.GetServeAddr()
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, cors.Default().Handler(router)))
}
