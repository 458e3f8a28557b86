package model

// ClientName identifies this client in the user agent and logs.
const ClientName = "im-room-client"

// ClientVersion is overwritten by the cmd package from build flags.
var ClientVersion = "0.0.0"
