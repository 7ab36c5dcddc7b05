package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type NoteController interface {
	GetNotes(w http.ResponseWriter, r *http.Request)
	SaveNote(w http.ResponseWriter, r *http.Request)
	DeleteNote(w http.ResponseWriter, r *http.Request)
}

func NewNoteController(noteService service.NoteService) NoteController {
	return &noteControllerImpl{noteService: noteService}
}

type noteControllerImpl struct {
	noteService service.NoteService
}

func (n noteControllerImpl) GetNotes(w http.ResponseWriter, r *http.Request) {
	roadmapId, customErr := getUuidParam(r, "roadmapId")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	notes, err := n.noteService.GetNotes(secctx.MakeUserContext(r), roadmapId)
	if err != nil {
		respondWithError(w, "Failed to get notes", err)
		return
	}
	respondWithJson(w, http.StatusOK, notes)
}

func (n noteControllerImpl) SaveNote(w http.ResponseWriter, r *http.Request) {
	roadmapId, customErr := getUuidParam(r, "roadmapId")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	var req view.SaveNoteReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	note, err := n.noteService.SaveNote(secctx.MakeUserContext(r), roadmapId, req)
	if err != nil {
		respondWithError(w, "Failed to save note", err)
		return
	}
	respondWithJson(w, http.StatusOK, note)
}

func (n noteControllerImpl) DeleteNote(w http.ResponseWriter, r *http.Request) {
	roadmapId, customErr := getUuidParam(r, "roadmapId")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	videoId, err := getUnescapedStringParam(r, "videoId")
	if err != nil {
		respondWithError(w, "Failed to read video id", err)
		return
	}
	if err := n.noteService.DeleteNote(secctx.MakeUserContext(r), roadmapId, videoId); err != nil {
		respondWithError(w, "Failed to delete note", err)
		return
	}
	respondWithJson(w, http.StatusOK, view.MessageResponse{Success: true, Message: "Note deleted successfully"})
}
