package external

// Remote builds ssh commands for the tournament hosts
type Remote struct {
	SSH string
}

// NewRemote returns a Remote using the given ssh binary, "ssh" when empty
func NewRemote(sshBin string) Remote {
	if sshBin == "" {
		sshBin = "ssh"
	}
	return Remote{SSH: sshBin}
}

// Command runs script on host. The remote shell receives the script as a single argument
func (r Remote) Command(host, script string) Command {
	return Command{Name: r.SSH, Args: []string{host, script}}
}
