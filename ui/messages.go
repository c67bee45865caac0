package ui

import (
	"xlchat/model"
)

// Message type aliases - the actual types live in the model package
type streamChunkMsg = model.StreamChunkMsg
type streamDoneMsg = model.StreamDoneMsg
type streamErrorMsg = model.StreamErrorMsg
type titleGeneratedMsg = model.TitleGeneratedMsg
type credentialRequiredMsg = model.CredentialRequiredMsg
type fileErrorMsg = model.FileErrorMsg
type storageWarningMsg = model.StorageWarningMsg
type transcriptMsg = model.TranscriptMsg
type speechEndedMsg = model.SpeechEndedMsg
type speechErrorMsg = model.SpeechErrorMsg
type exportDoneMsg = model.ExportDoneMsg
type copyDoneMsg = model.CopyDoneMsg
