// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - interaction.*
//   - user_input.*
//   - assistant_response.*
//
// Every event carries the `<base>#<n>` interaction id it belongs to, which is
// the sole ordering key receivers should use.
//
// interaction events
//
//   - InteractionStarted (interaction.started): a new interaction was
//     admitted and will produce a response.
//   - InteractionEnded (interaction.ended): the response stream for the
//     interaction completed.
//   - ResponseCancelled (interaction.response_cancelled): a newer turn
//     superseded the interaction's response; receivers stop playback.
//   - ErrorRaised (interaction.error): an unrecoverable error correlated to
//     the best-known interaction id.
//
// user_input events
//
//   - UserTranscriptInterim (user_input.transcript_interim): live partial
//     caption, mutable until the final transcript arrives.
//   - UserTranscriptFinal (user_input.transcript_final): terminal transcript
//     for the detected turn.
//   - UserSpeechComplete (user_input.speech_complete): one-shot turn
//     telemetry (endpointing latency, sample counts).
//
// assistant_response events
//
//   - AssistantResponseSegment (assistant_response.segment): streamed
//     response text segment.
//   - AssistantAudioFrame (assistant_response.audio_frame): synthesized
//     response audio frame.
package events
