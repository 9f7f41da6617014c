// Package protocol defines the wire schema relayed between the four table
// clients. One flat JSON object per action, no envelope, no message id, no
// acknowledgement.
package protocol

import "encoding/json"

type Kind string

const (
	KindPlayCard    Kind = "PLAY_CARD"
	KindCancelCard  Kind = "CANCEL_CARD"
	KindPickupCards Kind = "PICKUP_CARDS"
)

// Message is the unit of synchronization. All fields are strings; card fields
// stay empty unless the action is PLAY_CARD. Messages are built at the moment
// of a gesture, sent once and never retained.
type Message struct {
	Action        Kind   `json:"action"`
	Text          string `json:"message"` // display/log only, never used for logic
	GameID        string `json:"game_id"`
	GameName      string `json:"game_name"`
	GameDistribNb string `json:"game_distrib_nb"`
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	PlayerAlias   string `json:"player_alias"`
	PlayerTeam    string `json:"player_team"`
	PlayerCard    string `json:"player_card"`
	PlayerCardSrc string `json:"player_card_src"`
	CardNb        string `json:"card_nb"` // 1-based position within the current trick
}

func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode is structurally trusting: fields are read by name and absent fields
// come back as empty strings. Only payloads that are not valid JSON objects
// fail.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
