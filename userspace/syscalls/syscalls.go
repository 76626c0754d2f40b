// Package syscalls holds the builtin table of syscalls vltrace knows
// about. The tracer consults it to resolve trace sets into syscall ids
// and the CLI uses it for the various list outputs.
package syscalls

import "golang.org/x/sys/unix"

type ID int32

type Definition struct {
	ID    ID
	Name  string
	NArgs int

	// Trace sets this syscall belongs to ("file", "net", ...).
	Sets []string

	// Some table slots have no eBPF handler attached yet. They still
	// show up in the low level list but are never traced.
	Available bool
}

func (self Definition) NotValid() bool {
	return self.Name == ""
}

func (self Definition) InSet(name string) bool {
	for _, s := range self.Sets {
		if s == name {
			return true
		}
	}
	return false
}

// Core is the builtin syscall table. Numbers come from the x86_64
// syscall table (vltrace only supports this architecture).
var Core = map[ID]Definition{
	unix.SYS_READ:     {unix.SYS_READ, "read", 3, []string{"desc"}, true},
	unix.SYS_WRITE:    {unix.SYS_WRITE, "write", 3, []string{"desc"}, true},
	unix.SYS_OPEN:     {unix.SYS_OPEN, "open", 3, []string{"file", "desc"}, true},
	unix.SYS_CLOSE:    {unix.SYS_CLOSE, "close", 1, []string{"desc"}, true},
	unix.SYS_STAT:     {unix.SYS_STAT, "stat", 2, []string{"file"}, true},
	unix.SYS_FSTAT:    {unix.SYS_FSTAT, "fstat", 2, []string{"desc"}, true},
	unix.SYS_LSTAT:    {unix.SYS_LSTAT, "lstat", 2, []string{"file"}, true},
	unix.SYS_POLL:     {unix.SYS_POLL, "poll", 3, []string{"desc"}, true},
	unix.SYS_LSEEK:    {unix.SYS_LSEEK, "lseek", 3, []string{"desc"}, true},
	unix.SYS_MMAP:     {unix.SYS_MMAP, "mmap", 6, []string{"mem", "desc"}, true},
	unix.SYS_MPROTECT: {unix.SYS_MPROTECT, "mprotect", 3, []string{"mem"}, true},
	unix.SYS_MUNMAP:   {unix.SYS_MUNMAP, "munmap", 2, []string{"mem"}, true},
	unix.SYS_BRK:      {unix.SYS_BRK, "brk", 1, []string{"mem"}, true},

	unix.SYS_RT_SIGACTION:   {unix.SYS_RT_SIGACTION, "rt_sigaction", 4, []string{"sig"}, true},
	unix.SYS_RT_SIGPROCMASK: {unix.SYS_RT_SIGPROCMASK, "rt_sigprocmask", 4, []string{"sig"}, true},
	unix.SYS_RT_SIGRETURN:   {unix.SYS_RT_SIGRETURN, "rt_sigreturn", 0, []string{"sig"}, false},

	unix.SYS_IOCTL:    {unix.SYS_IOCTL, "ioctl", 3, []string{"desc"}, true},
	unix.SYS_PREAD64:  {unix.SYS_PREAD64, "pread64", 4, []string{"desc"}, true},
	unix.SYS_PWRITE64: {unix.SYS_PWRITE64, "pwrite64", 4, []string{"desc"}, true},
	unix.SYS_READV:    {unix.SYS_READV, "readv", 3, []string{"desc"}, true},
	unix.SYS_WRITEV:   {unix.SYS_WRITEV, "writev", 3, []string{"desc"}, true},
	unix.SYS_ACCESS:   {unix.SYS_ACCESS, "access", 2, []string{"file"}, true},
	unix.SYS_PIPE:     {unix.SYS_PIPE, "pipe", 1, []string{"desc"}, true},
	unix.SYS_SELECT:   {unix.SYS_SELECT, "select", 5, []string{"desc"}, true},

	unix.SYS_SCHED_YIELD: {unix.SYS_SCHED_YIELD, "sched_yield", 0, []string{"proc"}, true},
	unix.SYS_MREMAP:      {unix.SYS_MREMAP, "mremap", 5, []string{"mem"}, true},
	unix.SYS_MSYNC:       {unix.SYS_MSYNC, "msync", 3, []string{"mem"}, true},
	unix.SYS_MADVISE:     {unix.SYS_MADVISE, "madvise", 3, []string{"mem"}, true},

	unix.SYS_DUP:       {unix.SYS_DUP, "dup", 1, []string{"desc"}, true},
	unix.SYS_DUP2:      {unix.SYS_DUP2, "dup2", 2, []string{"desc"}, true},
	unix.SYS_PAUSE:     {unix.SYS_PAUSE, "pause", 0, []string{"sig"}, true},
	unix.SYS_NANOSLEEP: {unix.SYS_NANOSLEEP, "nanosleep", 2, []string{"proc"}, true},
	unix.SYS_GETPID:    {unix.SYS_GETPID, "getpid", 0, []string{"proc"}, true},
	unix.SYS_SENDFILE:  {unix.SYS_SENDFILE, "sendfile", 4, []string{"desc", "net"}, true},

	unix.SYS_SOCKET:      {unix.SYS_SOCKET, "socket", 3, []string{"net"}, true},
	unix.SYS_CONNECT:     {unix.SYS_CONNECT, "connect", 3, []string{"net"}, true},
	unix.SYS_ACCEPT:      {unix.SYS_ACCEPT, "accept", 3, []string{"net"}, true},
	unix.SYS_SENDTO:      {unix.SYS_SENDTO, "sendto", 6, []string{"net"}, true},
	unix.SYS_RECVFROM:    {unix.SYS_RECVFROM, "recvfrom", 6, []string{"net"}, true},
	unix.SYS_SENDMSG:     {unix.SYS_SENDMSG, "sendmsg", 3, []string{"net"}, true},
	unix.SYS_RECVMSG:     {unix.SYS_RECVMSG, "recvmsg", 3, []string{"net"}, true},
	unix.SYS_SHUTDOWN:    {unix.SYS_SHUTDOWN, "shutdown", 2, []string{"net"}, true},
	unix.SYS_BIND:        {unix.SYS_BIND, "bind", 3, []string{"net"}, true},
	unix.SYS_LISTEN:      {unix.SYS_LISTEN, "listen", 2, []string{"net"}, true},
	unix.SYS_GETSOCKNAME: {unix.SYS_GETSOCKNAME, "getsockname", 3, []string{"net"}, true},
	unix.SYS_GETPEERNAME: {unix.SYS_GETPEERNAME, "getpeername", 3, []string{"net"}, true},
	unix.SYS_SOCKETPAIR:  {unix.SYS_SOCKETPAIR, "socketpair", 4, []string{"net"}, true},
	unix.SYS_SETSOCKOPT:  {unix.SYS_SETSOCKOPT, "setsockopt", 5, []string{"net"}, true},
	unix.SYS_GETSOCKOPT:  {unix.SYS_GETSOCKOPT, "getsockopt", 5, []string{"net"}, true},
	unix.SYS_ACCEPT4:     {unix.SYS_ACCEPT4, "accept4", 4, []string{"net"}, true},

	unix.SYS_CLONE:  {unix.SYS_CLONE, "clone", 5, []string{"proc"}, true},
	unix.SYS_FORK:   {unix.SYS_FORK, "fork", 0, []string{"proc"}, true},
	unix.SYS_VFORK:  {unix.SYS_VFORK, "vfork", 0, []string{"proc"}, true},
	unix.SYS_EXECVE: {unix.SYS_EXECVE, "execve", 3, []string{"proc"}, true},
	unix.SYS_EXIT:   {unix.SYS_EXIT, "exit", 1, []string{"proc"}, true},
	unix.SYS_WAIT4:  {unix.SYS_WAIT4, "wait4", 4, []string{"proc"}, true},
	unix.SYS_KILL:   {unix.SYS_KILL, "kill", 2, []string{"sig", "proc"}, true},
	unix.SYS_UNAME:  {unix.SYS_UNAME, "uname", 1, []string{"proc"}, true},

	unix.SYS_FCNTL:     {unix.SYS_FCNTL, "fcntl", 3, []string{"desc"}, true},
	unix.SYS_FLOCK:     {unix.SYS_FLOCK, "flock", 2, []string{"desc"}, true},
	unix.SYS_FSYNC:     {unix.SYS_FSYNC, "fsync", 1, []string{"desc"}, true},
	unix.SYS_FDATASYNC: {unix.SYS_FDATASYNC, "fdatasync", 1, []string{"desc"}, true},
	unix.SYS_TRUNCATE:  {unix.SYS_TRUNCATE, "truncate", 2, []string{"file"}, true},
	unix.SYS_FTRUNCATE: {unix.SYS_FTRUNCATE, "ftruncate", 2, []string{"desc"}, true},
	unix.SYS_GETDENTS:  {unix.SYS_GETDENTS, "getdents", 3, []string{"desc"}, true},
	unix.SYS_GETCWD:    {unix.SYS_GETCWD, "getcwd", 2, []string{"file"}, true},
	unix.SYS_CHDIR:     {unix.SYS_CHDIR, "chdir", 1, []string{"file"}, true},
	unix.SYS_FCHDIR:    {unix.SYS_FCHDIR, "fchdir", 1, []string{"desc"}, true},
	unix.SYS_RENAME:    {unix.SYS_RENAME, "rename", 2, []string{"file"}, true},
	unix.SYS_MKDIR:     {unix.SYS_MKDIR, "mkdir", 2, []string{"file"}, true},
	unix.SYS_RMDIR:     {unix.SYS_RMDIR, "rmdir", 1, []string{"file"}, true},
	unix.SYS_CREAT:     {unix.SYS_CREAT, "creat", 2, []string{"file", "desc"}, true},
	unix.SYS_LINK:      {unix.SYS_LINK, "link", 2, []string{"file"}, true},
	unix.SYS_UNLINK:    {unix.SYS_UNLINK, "unlink", 1, []string{"file"}, true},
	unix.SYS_SYMLINK:   {unix.SYS_SYMLINK, "symlink", 2, []string{"file"}, true},
	unix.SYS_READLINK:  {unix.SYS_READLINK, "readlink", 3, []string{"file"}, true},
	unix.SYS_CHMOD:     {unix.SYS_CHMOD, "chmod", 2, []string{"file"}, true},
	unix.SYS_FCHMOD:    {unix.SYS_FCHMOD, "fchmod", 2, []string{"desc"}, true},
	unix.SYS_CHOWN:     {unix.SYS_CHOWN, "chown", 3, []string{"file"}, true},
	unix.SYS_FCHOWN:    {unix.SYS_FCHOWN, "fchown", 3, []string{"desc"}, true},
	unix.SYS_LCHOWN:    {unix.SYS_LCHOWN, "lchown", 3, []string{"file"}, true},
	unix.SYS_UMASK:     {unix.SYS_UMASK, "umask", 1, []string{"file"}, true},

	unix.SYS_PTRACE:  {unix.SYS_PTRACE, "ptrace", 4, []string{"proc"}, false},
	unix.SYS_SYSLOG:  {unix.SYS_SYSLOG, "syslog", 3, []string{"proc"}, false},
	unix.SYS_GETUID:  {unix.SYS_GETUID, "getuid", 0, []string{"proc"}, true},
	unix.SYS_GETGID:  {unix.SYS_GETGID, "getgid", 0, []string{"proc"}, true},
	unix.SYS_SETUID:  {unix.SYS_SETUID, "setuid", 1, []string{"proc"}, true},
	unix.SYS_SETGID:  {unix.SYS_SETGID, "setgid", 1, []string{"proc"}, true},
	unix.SYS_GETEUID: {unix.SYS_GETEUID, "geteuid", 0, []string{"proc"}, true},
	unix.SYS_GETEGID: {unix.SYS_GETEGID, "getegid", 0, []string{"proc"}, true},

	unix.SYS_OPENAT:     {unix.SYS_OPENAT, "openat", 4, []string{"file", "desc"}, true},
	unix.SYS_MKDIRAT:    {unix.SYS_MKDIRAT, "mkdirat", 3, []string{"file"}, true},
	unix.SYS_UNLINKAT:   {unix.SYS_UNLINKAT, "unlinkat", 3, []string{"file"}, true},
	unix.SYS_RENAMEAT:   {unix.SYS_RENAMEAT, "renameat", 4, []string{"file"}, true},
	unix.SYS_READLINKAT: {unix.SYS_READLINKAT, "readlinkat", 4, []string{"file"}, true},
	unix.SYS_FCHMODAT:   {unix.SYS_FCHMODAT, "fchmodat", 3, []string{"file"}, true},
	unix.SYS_FACCESSAT:  {unix.SYS_FACCESSAT, "faccessat", 3, []string{"file"}, true},
	unix.SYS_EXECVEAT:   {unix.SYS_EXECVEAT, "execveat", 5, []string{"proc"}, true},

	unix.SYS_EPOLL_WAIT:   {unix.SYS_EPOLL_WAIT, "epoll_wait", 4, []string{"desc"}, true},
	unix.SYS_EPOLL_CTL:    {unix.SYS_EPOLL_CTL, "epoll_ctl", 4, []string{"desc"}, true},
	unix.SYS_EPOLL_CREATE: {unix.SYS_EPOLL_CREATE, "epoll_create", 1, []string{"desc"}, true},
	unix.SYS_DUP3:         {unix.SYS_DUP3, "dup3", 3, []string{"desc"}, true},
	unix.SYS_PIPE2:        {unix.SYS_PIPE2, "pipe2", 2, []string{"desc"}, true},
	unix.SYS_STATX:        {unix.SYS_STATX, "statx", 5, []string{"file"}, false},
}

// GetDefinitionByID returns the zero Definition when the id is not in
// the table. Callers check with NotValid().
func GetDefinitionByID(id ID) Definition {
	res, pres := Core[id]
	if !pres {
		return Definition{}
	}
	return res
}

func GetDefinitionByName(name string) (Definition, bool) {
	for _, d := range Core {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// IsTraced reports whether a table entry can actually be traced. This
// is the predicate the syscall list queries use to hide handler-less
// table slots.
func IsTraced(d Definition) bool {
	return d.Available
}
