package app

// VoiceChannelPrefix namespaces the voice channel of each room code.
const VoiceChannelPrefix = "ramen-"
