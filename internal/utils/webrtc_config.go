package utils

import (
	"github.com/pion/webrtc/v3"
)

// BuildWebRTCConfig assembles the ICE server configuration handed to browser
// clients. TURN is included only when a URL is configured.
func BuildWebRTCConfig(stunServers []string, turnURL, turnUsername, turnPassword string) webrtc.Configuration {
	var iceServers []webrtc.ICEServer
	for _, stun := range stunServers {
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs: []string{stun},
		})
	}

	if turnURL != "" {
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs:       []string{turnURL},
			Username:   turnUsername,
			Credential: turnPassword,
		})
	}

	return webrtc.Configuration{
		ICEServers:         iceServers,
		ICETransportPolicy: webrtc.ICETransportPolicyAll,
		BundlePolicy:       webrtc.BundlePolicyMaxBundle,
		RTCPMuxPolicy:      webrtc.RTCPMuxPolicyRequire,
	}
}
