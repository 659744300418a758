package domain

// NodeInstance represents a local development chain process
type NodeInstance struct {
	Name    string `json:"name"`
	Host    string `json:"host"`
	Port    string `json:"port"`
	ChainID string `json:"chainId,omitempty"`
	PidFile string `json:"pidFile"`
	LogFile string `json:"logFile"`
}

// NodeStatus represents the status of a local node
type NodeStatus struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid,omitempty"`
	RPCURL     string `json:"rpcUrl,omitempty"`
	LogFile    string `json:"logFile"`
	RPCHealthy bool   `json:"rpcHealthy"`
	NetworkID  string `json:"networkId,omitempty"`
	Error      string `json:"error,omitempty"`
}
